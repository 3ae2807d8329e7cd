package param

// Builder provides a fluent API for creating parameters
type Builder struct {
	desc Descriptor
	text func(float32) string
}

// New creates a new parameter builder. Parameters start as enabled inputs
// over [0, 1].
func New(name string) *Builder {
	return &Builder{
		desc: Descriptor{
			Name:   name,
			Hints:  IsEnabled,
			Ranges: NewRanges(0, 0, 1),
		},
	}
}

// Range sets the min and max values
func (b *Builder) Range(min, max float32) *Builder {
	b.desc.Ranges.Min = min
	b.desc.Ranges.Max = max
	return b
}

// Default sets the default value
func (b *Builder) Default(value float32) *Builder {
	b.desc.Ranges.Def = value
	return b
}

// Steps overrides the default step sizes
func (b *Builder) Steps(step, small, large float32) *Builder {
	b.desc.Ranges.Step = step
	b.desc.Ranges.StepSmall = small
	b.desc.Ranges.StepLarge = large
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.desc.Unit = unit
	return b
}

// RTSafe marks the parameter as changeable from the processing call
func (b *Builder) RTSafe() *Builder {
	b.desc.Hints |= IsRTSafe
	return b
}

// Output marks the parameter as plugin-written
func (b *Builder) Output() *Builder {
	b.desc.Hints |= IsOutput
	return b
}

// Boolean creates an on/off parameter
func (b *Builder) Boolean() *Builder {
	b.desc.Hints |= IsBoolean
	b.desc.Ranges.Step = 1
	b.desc.Ranges.StepSmall = 1
	b.desc.Ranges.StepLarge = 1
	return b
}

// Integer restricts the parameter to whole numbers
func (b *Builder) Integer() *Builder {
	b.desc.Hints |= IsInteger
	b.desc.Ranges.Step = 1
	b.desc.Ranges.StepSmall = 1
	b.desc.Ranges.StepLarge = 10
	return b
}

// Logarithmic hints a logarithmic UI scale
func (b *Builder) Logarithmic() *Builder {
	b.desc.Hints |= IsLogarithmic
	return b
}

// SampleRate declares the range per unit of sample rate
func (b *Builder) SampleRate() *Builder {
	b.desc.Hints |= UsesSampleRate
	return b
}

// ScalePoint adds a named value
func (b *Builder) ScalePoint(label string, value float32) *Builder {
	b.desc.Hints |= UsesScalePoints
	b.desc.ScalePoints = append(b.desc.ScalePoints, ScalePoint{Label: label, Value: value})
	return b
}

// Formatter sets custom value formatting
func (b *Builder) Formatter(format func(float32) string) *Builder {
	b.desc.Hints |= UsesCustomText
	b.text = format
	return b
}

// Hidden clears the enabled hint
func (b *Builder) Hidden() *Builder {
	b.desc.Hints &^= IsEnabled
	return b
}

// Build returns the configured parameter
func (b *Builder) Build() *Parameter {
	p := NewParameter(b.desc)
	p.text = b.text
	return p
}
