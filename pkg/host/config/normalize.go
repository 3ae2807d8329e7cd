package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSession()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Session.ResourceDir, err = expandPath(strings.TrimSpace(c.Session.ResourceDir)); err != nil {
		return fmt.Errorf("session.resource_dir: %w", err)
	}
	if strings.TrimSpace(c.Presets.Path) == "" {
		c.Presets.Path = defaultPresetPath()
	}
	if c.Presets.Path, err = expandPath(c.Presets.Path); err != nil {
		return fmt.Errorf("presets.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSession() {
	c.Session.EventOrdering = strings.ToLower(strings.TrimSpace(c.Session.EventOrdering))
	if c.Session.EventOrdering == "" {
		c.Session.EventOrdering = defaultEventOrdering
	}
	if c.Session.IdleIntervalMS == 0 {
		c.Session.IdleIntervalMS = defaultIdleIntervalMS
	}
	if c.Session.MaxEvents == 0 {
		c.Session.MaxEvents = defaultMaxEvents
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
