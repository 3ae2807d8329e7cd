// Package state saves and restores a plugin instance as an opaque blob.
//
// The blob is a CBOR envelope carrying a magic string, a format version, the
// plugin label, every parameter value in sample-rate independent form, the
// current MIDI program and a plugin-defined map of custom sections.
// Restore either applies the whole blob or nothing.
package state

import (
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/justyntemme/nativeplug/pkg/framework/param"
)

const (
	// Magic identifies a state blob.
	Magic = "NPST"
	// Version is the current envelope format.
	Version uint32 = 1
	// NoProgram marks a blob saved without a current MIDI program.
	NoProgram int32 = -1
)

var (
	ErrCorrupt    = errors.New("state: corrupt blob")
	ErrBadMagic   = errors.New("state: not a state blob")
	ErrVersion    = errors.New("state: unsupported version")
	ErrLabel      = errors.New("state: blob belongs to another plugin")
	ErrParamCount = errors.New("state: parameter count mismatch")
	ErrValue      = errors.New("state: invalid parameter value")
	ErrProgram    = errors.New("state: unknown midi program")
)

// Envelope is the decoded form of a blob.
type Envelope struct {
	Magic   string            `cbor:"1,keyasint"`
	Version uint32            `cbor:"2,keyasint"`
	Label   string            `cbor:"3,keyasint"`
	Params  []float32         `cbor:"4,keyasint"`
	Program int32             `cbor:"5,keyasint"`
	Custom  map[string][]byte `cbor:"6,keyasint,omitempty"`
}

// SaveFunc returns a plugin's custom sections.
type SaveFunc func() (map[string][]byte, error)

// LoadFunc validates custom sections and returns a commit function that
// applies them. It must not change the instance itself. Unknown keys should
// be ignored.
type LoadFunc func(custom map[string][]byte) (commit func(), err error)

// ProgramFuncs connects the manager to an instance's MIDI program.
type ProgramFuncs struct {
	Count   func() uint32
	Current func() int32
	Select  func(index int32)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: 1 << 16,
		MaxMapPairs:      1 << 12,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Manager handles plugin state saving and loading
type Manager struct {
	label    string
	registry *param.Registry
	programs *ProgramFuncs
	save     SaveFunc
	load     LoadFunc
}

// NewManager creates a new state manager
func NewManager(label string, registry *param.Registry) *Manager {
	return &Manager{
		label:    label,
		registry: registry,
	}
}

// SetPrograms makes the manager save and restore the current program.
func (m *Manager) SetPrograms(p ProgramFuncs) {
	m.programs = &p
}

// SetCustom sets functions for saving and loading custom state
func (m *Manager) SetCustom(save SaveFunc, load LoadFunc) {
	m.save = save
	m.load = load
}

// Save encodes the current state.
func (m *Manager) Save() ([]byte, error) {
	env := Envelope{
		Magic:   Magic,
		Version: Version,
		Label:   m.label,
		Params:  m.registry.Normalized(),
		Program: NoProgram,
	}
	if m.programs != nil && m.programs.Current != nil {
		env.Program = m.programs.Current()
	}
	if m.save != nil {
		custom, err := m.save()
		if err != nil {
			return nil, fmt.Errorf("state: saving custom sections: %w", err)
		}
		env.Custom = custom
	}

	data, err := encMode.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("state: encode: %w", err)
	}
	return data, nil
}

// Restore applies a blob produced by Save. On any error the instance is
// left untouched.
func (m *Manager) Restore(data []byte) error {
	env, err := Decode(data)
	if err != nil {
		return err
	}
	if env.Label != m.label {
		return fmt.Errorf("%w: %q, expected %q", ErrLabel, env.Label, m.label)
	}
	if uint32(len(env.Params)) != m.registry.Count() {
		return fmt.Errorf("%w: blob has %d, instance has %d", ErrParamCount, len(env.Params), m.registry.Count())
	}
	for i, v := range env.Params {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: parameter %d", ErrValue, i)
		}
	}

	selectProgram := false
	if env.Program != NoProgram && m.programs != nil && m.programs.Select != nil {
		if env.Program < 0 || (m.programs.Count != nil && uint32(env.Program) >= m.programs.Count()) {
			return fmt.Errorf("%w: %d", ErrProgram, env.Program)
		}
		selectProgram = true
	}

	var commit func()
	if m.load != nil && len(env.Custom) > 0 {
		if commit, err = m.load(env.Custom); err != nil {
			return fmt.Errorf("state: loading custom sections: %w", err)
		}
	}

	// Programs may rewrite parameters, so they go first and the saved
	// values win.
	if selectProgram {
		m.programs.Select(env.Program)
	}
	if err := m.registry.RestoreNormalized(env.Params); err != nil {
		return err
	}
	if commit != nil {
		commit()
	}
	return nil
}

// Decode parses a blob and checks its magic and version without applying
// it.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if len(data) == 0 {
		return env, ErrCorrupt
	}
	if err := decMode.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Magic != Magic {
		return env, ErrBadMagic
	}
	if env.Version == 0 || env.Version > Version {
		return env, fmt.Errorf("%w: %d, newest supported is %d", ErrVersion, env.Version, Version)
	}
	return env, nil
}
