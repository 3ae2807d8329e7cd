package param

import (
	"github.com/justyntemme/nativeplug/pkg/tags"
)

// Hints is the parsed form of a parameter's hint tags.
type Hints uint32

const (
	IsOutput Hints = 1 << iota
	IsEnabled
	IsRTSafe
	IsBoolean
	IsInteger
	IsLogarithmic
	UsesSampleRate
	UsesScalePoints
	UsesCustomText
)

var hintTags = []struct {
	hint Hints
	tag  string
}{
	{IsOutput, tags.HintOutput},
	{IsEnabled, tags.HintEnabled},
	{IsRTSafe, tags.HintRTSafe},
	{IsBoolean, tags.HintBoolean},
	{IsInteger, tags.HintInteger},
	{IsLogarithmic, tags.HintLogarithmic},
	{UsesSampleRate, tags.HintSampleRate},
	{UsesScalePoints, tags.HintScalePoints},
	{UsesCustomText, tags.HintCustomText},
}

// ParseHints converts a tag set. Unknown tags are ignored.
func ParseHints(set tags.Set) Hints {
	var h Hints
	for _, ht := range hintTags {
		if set.Has(ht.tag) {
			h |= ht.hint
		}
	}
	return h
}

// Tags converts back to the serialized vocabulary.
func (h Hints) Tags() tags.Set {
	set := make(tags.Set)
	for _, ht := range hintTags {
		if h&ht.hint != 0 {
			set[ht.tag] = struct{}{}
		}
	}
	return set
}

// Has reports whether every bit of x is set.
func (h Hints) Has(x Hints) bool {
	return h&x == x
}

// IsInput is the complement of IsOutput.
func (h Hints) IsInput() bool {
	return h&IsOutput == 0
}

func (h Hints) String() string {
	return h.Tags().String()
}
