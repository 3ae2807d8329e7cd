package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/justyntemme/nativeplug/examples"
	"github.com/justyntemme/nativeplug/pkg/framework/debug"
	"github.com/justyntemme/nativeplug/pkg/host"
	"github.com/justyntemme/nativeplug/pkg/host/config"
	"github.com/justyntemme/nativeplug/pkg/plugin"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	logOutput  io.Writer

	configOnce sync.Once
	config     *config.Config
	logger     *debug.Logger
	configErr  error

	registryOnce sync.Once
	registry     *plugin.Registry
	registryErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = c.newLogger(cfg.Logging)
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg config.Logging) *debug.Logger {
	out := c.logOutput
	if out == nil {
		out = os.Stderr
	}
	// validated by config.Load
	format, _ := debug.ParseFormat(cfg.Format)
	l := debug.New(out, "nativehost", format)
	l.SetLevel(debug.ParseLevel(cfg.Level))
	if c.verbose != nil && *c.verbose {
		l.SetLevel(debug.LogLevelDebug)
	}
	return l
}

func (c *commandContext) ensureRegistry() (*plugin.Registry, error) {
	c.registryOnce.Do(func() {
		c.registry, c.registryErr = examples.NewRegistry()
	})
	return c.registry, c.registryErr
}

// openSession instantiates and activates label. adjust may override the
// loaded configuration for this session only.
func (c *commandContext) openSession(label string, adjust func(*config.Config)) (*host.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	reg, err := c.ensureRegistry()
	if err != nil {
		return nil, err
	}
	desc, err := reg.Lookup(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (see `nativehost list`)", err, label)
	}

	sessionCfg := *cfg
	if adjust != nil {
		adjust(&sessionCfg)
		if err := sessionCfg.Validate(); err != nil {
			return nil, err
		}
	}

	s, err := host.New(desc, sessionCfg, host.WithLogger(c.logger.With("plugin", label)))
	if err != nil {
		return nil, err
	}
	if err := s.Activate(); err != nil {
		s.Close()
		return nil, err
	}
	c.logger.Debug("session %s opened for %s", s.ID(), label)
	return s, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
