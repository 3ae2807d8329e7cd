package event

// Segments splits a block of frames samples at event frames. fn is called
// for consecutive ranges [start, end) together with the events that take
// effect at start, so audio before an event's frame is rendered without it
// and audio from that frame on reflects it. events must be sorted and
// validated.
func Segments(events []Event, frames uint32, fn func(start, end uint32, at []Event)) {
	var start uint32
	i := 0
	for {
		j := i
		for j < len(events) && events[j].Frame <= start {
			j++
		}
		end := frames
		if j < len(events) && events[j].Frame < frames {
			end = events[j].Frame
		}
		fn(start, end, events[i:j])
		if end >= frames {
			return
		}
		i, start = j, end
	}
}
