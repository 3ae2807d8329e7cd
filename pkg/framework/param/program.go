package param

import (
	"errors"
	"fmt"
)

// ErrNoProgram reports a bank/program pair that is not in the list.
var ErrNoProgram = errors.New("param: no such midi program")

// Program is one entry of a plugin's static MIDI program catalog.
type Program struct {
	Bank    uint32
	Program uint32
	Name    string
}

// ProgramList is a plugin's MIDI program catalog in index order.
type ProgramList []Program

// Count returns the number of programs.
func (l ProgramList) Count() uint32 {
	return uint32(len(l))
}

// Info returns the program at index i.
func (l ProgramList) Info(i uint32) (Program, error) {
	if i >= uint32(len(l)) {
		return Program{}, fmt.Errorf("%w: index %d", ErrIndexOutOfRange, i)
	}
	return l[i], nil
}

// Find returns the index of bank/program. It never allocates, so program
// events can be resolved while processing.
func (l ProgramList) Find(bank, program uint32) (int, bool) {
	for i, p := range l {
		if p.Bank == bank && p.Program == program {
			return i, true
		}
	}
	return -1, false
}
