// Package tags implements the colon-separated tag vocabularies used for plugin
// categories, features, supported MIDI events and parameter hints.
package tags

import (
	"fmt"
	"sort"
	"strings"
)

// Separator joins tags in their serialized form.
const Separator = ":"

// Plugin categories. Plugins may add their own lowercase ASCII categories.
const (
	CategorySynth     = "synth"
	CategoryDelay     = "delay"
	CategoryEQ        = "eq"
	CategoryFilter    = "filter"
	CategoryDynamics  = "dynamics"
	CategoryModulator = "modulator"
	CategoryUtility   = "utility"
	CategoryOther     = "other"
)

// Plugin features.
const (
	FeatureRTSafe            = "rtsafe"
	FeatureFixedBuffers      = "fixedbuffers"
	FeatureBufferSizeChanges = "buffersizechanges"
	FeatureSampleRateChanges = "sampleratechanges"
	FeatureMonoPanning       = "monopanning"
	FeatureStereoBalance     = "stereobalance"
	FeatureState             = "state"
	FeatureTime              = "time"
	FeatureWriteEvent        = "writeevent"
	FeatureUIOpenSave        = "uiopensave"
)

// Supported MIDI events.
const (
	SupportsProgramChanges  = "program"
	SupportsControlChanges  = "control"
	SupportsChannelPressure = "pressure"
	SupportsNoteAftertouch  = "aftertouch"
	SupportsPitchbend       = "pitchbend"
	SupportsAllSoundOff     = "allsoundoff"

	// SupportsEverything does not include program changes on purpose.
	SupportsEverything = "control:pressure:aftertouch:pitchbend:allsoundoff"
)

// Parameter hints.
const (
	HintOutput      = "output"
	HintEnabled     = "enabled"
	HintRTSafe      = "rtsafe"
	HintBoolean     = "boolean"
	HintInteger     = "integer"
	HintLogarithmic = "logarithmic"
	HintSampleRate  = "samplerate"
	HintScalePoints = "scalepoints"
	HintCustomText  = "customtext"
)

// Set is an unordered set of tags. The zero value is an empty set.
type Set map[string]struct{}

// Parse splits a serialized tag string. Empty and invalid tags are dropped,
// unknown tags are kept as-is.
func Parse(s string) Set {
	set := make(Set)
	for _, tag := range strings.Split(s, Separator) {
		tag = strings.TrimSpace(tag)
		if valid(tag) {
			set[tag] = struct{}{}
		}
	}
	return set
}

// Of builds a set from individual tags, ignoring invalid ones.
func Of(tags ...string) Set {
	set := make(Set, len(tags))
	for _, tag := range tags {
		if valid(tag) {
			set[tag] = struct{}{}
		}
	}
	return set
}

// Validate reports the first tag in s that is not lowercase ASCII.
func Validate(s string) error {
	if s == "" {
		return nil
	}
	for _, tag := range strings.Split(s, Separator) {
		if !valid(tag) {
			return fmt.Errorf("invalid tag %q", tag)
		}
	}
	return nil
}

// Has reports whether tag is present.
func (s Set) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// With returns a copy of s including tag.
func (s Set) With(tag string) Set {
	out := s.clone()
	if valid(tag) {
		out[tag] = struct{}{}
	}
	return out
}

// Without returns a copy of s without tag.
func (s Set) Without(tag string) Set {
	out := s.clone()
	delete(out, tag)
	return out
}

// Len returns the number of tags.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the tags in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// String serializes the set in a stable order.
func (s Set) String() string {
	return strings.Join(s.Sorted(), Separator)
}

func (s Set) clone() Set {
	out := make(Set, len(s)+1)
	for tag := range s {
		out[tag] = struct{}{}
	}
	return out
}

// valid accepts lowercase ASCII letters, digits and '_'.
func valid(tag string) bool {
	if tag == "" {
		return false
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
