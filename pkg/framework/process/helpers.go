package process

// ProcessRange processes samples [start, end) of every channel pair. Used
// with Segments to render the audio between two events.
func (c *Context) ProcessRange(start, end uint32, fn func(ch int, input, output []float32)) {
	if end > c.Frames {
		end = c.Frames
	}
	if start >= end {
		return
	}
	for ch := 0; ch < c.GetNumChannels(); ch++ {
		fn(ch, c.Input[ch][start:end], c.Output[ch][start:end])
	}
}

// ProcessOutputs processes samples [start, end) of every output channel.
// Instruments without audio inputs use it.
func (c *Context) ProcessOutputs(start, end uint32, fn func(ch int, output []float32)) {
	if end > c.Frames {
		end = c.Frames
	}
	if start >= end {
		return
	}
	for ch := range c.Output {
		fn(ch, c.Output[ch][start:end])
	}
}

// GetNumChannels returns the minimum of input and output channels
func (c *Context) GetNumChannels() int {
	numChannels := c.NumInputChannels()
	if c.NumOutputChannels() < numChannels {
		numChannels = c.NumOutputChannels()
	}
	return numChannels
}
