package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/framework/param"
	"github.com/justyntemme/nativeplug/pkg/host"
)

var errBadAssignment = errors.New("parameter assignment must look like index=value or name=value")

type assignment struct {
	key   string
	value float32
}

func parseAssignment(raw string) (assignment, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return assignment{}, fmt.Errorf("%w: %q", errBadAssignment, raw)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
	if err != nil {
		return assignment{}, fmt.Errorf("%w: %q: %v", errBadAssignment, raw, err)
	}
	return assignment{key: key, value: float32(v)}, nil
}

func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, r := range raw {
		a, err := parseAssignment(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// resolveParameter accepts an index or a case-insensitive parameter name.
func resolveParameter(s *host.Session, key string) (uint32, param.Descriptor, error) {
	if idx, err := strconv.ParseUint(key, 10, 32); err == nil {
		info, err := s.ParameterInfo(uint32(idx))
		return uint32(idx), info, err
	}
	for i := uint32(0); i < s.ParameterCount(); i++ {
		info, err := s.ParameterInfo(i)
		if err != nil {
			return 0, param.Descriptor{}, err
		}
		if strings.EqualFold(info.Name, key) {
			return i, info, nil
		}
	}
	return 0, param.Descriptor{}, fmt.Errorf("no parameter named %q", key)
}

// applyAssignments sets non-rtsafe inputs directly and returns parameter
// events at frame 0 for the rtsafe ones, which only change inside Process.
func applyAssignments(s *host.Session, list []assignment) ([]event.Event, error) {
	var events []event.Event
	for _, a := range list {
		idx, info, err := resolveParameter(s, a.key)
		if err != nil {
			return nil, err
		}
		switch {
		case info.Hints.Has(param.IsOutput):
			return nil, fmt.Errorf("parameter %d (%s) is an output", idx, info.Name)
		case info.Hints.Has(param.IsRTSafe):
			events = append(events, s.EventTypes().Parameter(0, idx, a.value))
		default:
			if _, err := s.SetParameter(idx, a.value); err != nil {
				return nil, fmt.Errorf("set %s: %w", info.Name, err)
			}
		}
	}
	return events, nil
}

func parameterRows(s *host.Session) ([][]string, error) {
	rows := make([][]string, 0, s.ParameterCount())
	for i := uint32(0); i < s.ParameterCount(); i++ {
		info, err := s.ParameterInfo(i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(i), 10),
			info.Name,
			info.Hints.String(),
			formatFloat(info.Ranges.Min),
			formatFloat(info.Ranges.Max),
			formatFloat(info.Ranges.Def),
			info.Unit,
			currentValue(s, i),
		})
	}
	return rows, nil
}

var parameterHeaders = []string{"#", "Name", "Hints", "Min", "Max", "Default", "Unit", "Value"}

var parameterAligns = []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight}

func currentValue(s *host.Session, i uint32) string {
	v, err := s.ParameterValue(i)
	if errors.Is(err, host.ErrRealtimeOutput) {
		return "(events)"
	}
	if err != nil {
		return "?"
	}
	if text := s.ParameterText(i, v); text != "" {
		return text
	}
	return formatFloat(v)
}
