package audio

import (
	"fmt"
	"strings"
)

// Classification is the result of measuring both channels of a file.
type Classification int

const (
	LeftSilent Classification = iota + 1
	RightSilent
	Mono
	Stereo
)

// All returns every classification in display order.
func All() []Classification {
	return []Classification{LeftSilent, RightSilent, Mono, Stereo}
}

// Decide applies the four-way policy to independent per-channel results.
func Decide(leftSilent, rightSilent bool) Classification {
	switch {
	case leftSilent && !rightSilent:
		return LeftSilent
	case rightSilent && !leftSilent:
		return RightSilent
	case leftSilent && rightSilent:
		return Mono
	default:
		return Stereo
	}
}

func (c Classification) String() string {
	switch c {
	case LeftSilent:
		return "left-silent"
	case RightSilent:
		return "right-silent"
	case Mono:
		return "mono"
	case Stereo:
		return "stereo"
	default:
		return "unknown"
	}
}

// Label is the human readable form used in tables and transcripts.
func (c Classification) Label() string {
	switch c {
	case LeftSilent:
		return "Left channel silent"
	case RightSilent:
		return "Right channel silent"
	case Mono:
		return "Mono (both silent)"
	case Stereo:
		return "Stereo"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the four classifications.
func (c Classification) Valid() bool {
	return c >= LeftSilent && c <= Stereo
}

// Actionable reports whether a repair would change the file.
func (c Classification) Actionable() bool {
	return c == LeftSilent || c == RightSilent
}

// Parse accepts the String form, case-insensitively. Underscores are treated
// as hyphens so "left_silent" also parses.
func Parse(s string) (Classification, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, c := range All() {
		if c.String() == norm {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown classification %q (use left-silent, right-silent, mono or stereo)", s)
}

// ParseList parses a list of classifications, dropping duplicates.
func ParseList(values []string) ([]Classification, error) {
	seen := make(map[Classification]bool, len(values))
	out := make([]Classification, 0, len(values))
	for _, v := range values {
		c, err := Parse(v)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}
