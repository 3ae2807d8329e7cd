// Package plugin defines the capability tables exchanged between a host and
// a plugin: the static Descriptor, the per-instance operation set and the
// host facade handed to each instance.
package plugin

import (
	"errors"
	"fmt"

	"github.com/justyntemme/nativeplug/pkg/tags"
)

var (
	ErrInvalidDescriptor = errors.New("plugin: invalid descriptor")
	ErrAlreadyRegistered = errors.New("plugin: label already registered")
	ErrNotFound          = errors.New("plugin: no plugin with that label")
	ErrRegistryClosed    = errors.New("plugin: registry closed")
)

// Counts are the default channel and parameter counts of a plugin.
type Counts struct {
	AudioIns  uint32
	AudioOuts uint32
	MidiIns   uint32
	MidiOuts  uint32
	ParamIns  uint32
	ParamOuts uint32
}

// Descriptor is the static capability table of a plugin.
type Descriptor struct {
	Categories tags.Set
	Features   tags.Set
	Supports   tags.Set
	Counts     Counts

	Name      string
	Label     string
	Maker     string
	Copyright string

	// Instantiate creates an instance bound to host.
	Instantiate func(host Host) (Instance, error)
}

// Validate checks the fields a host relies on.
func (d *Descriptor) Validate() error {
	switch {
	case d == nil:
		return fmt.Errorf("%w: nil", ErrInvalidDescriptor)
	case d.Label == "":
		return fmt.Errorf("%w: empty label", ErrInvalidDescriptor)
	case d.Instantiate == nil:
		return fmt.Errorf("%w: %s has no Instantiate", ErrInvalidDescriptor, d.Label)
	}
	return nil
}

// HasFeature reports whether the plugin declared feature.
func (d *Descriptor) HasFeature(feature string) bool {
	return d.Features.Has(feature)
}

// SupportsMidi reports whether the plugin accepts a MIDI message class.
func (d *Descriptor) SupportsMidi(kind string) bool {
	return d.Supports.Has(kind)
}

// HandlesPrograms reports whether the plugin takes program changes as raw
// MIDI instead of program events.
func (d *Descriptor) HandlesPrograms() bool {
	return d.Supports.Has(tags.SupportsProgramChanges)
}
