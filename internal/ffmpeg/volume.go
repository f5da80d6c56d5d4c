package ffmpeg

import (
	"regexp"
	"strings"
)

var reMeanVolume = regexp.MustCompile(`mean_volume:\s*(-?inf|-?[0-9]+(?:\.[0-9]+)?)\s*dB`)

// MeanVolume extracts the last mean_volume value reported by volumedetect.
// ok is false when the stream carries no volume statistics.
func MeanVolume(stderr string) (value string, ok bool) {
	matches := reMeanVolume.FindAllStringSubmatch(stderr, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}

// IsSilent reports whether a mean_volume value means no signal energy at all.
// Very quiet audio (e.g. -91.0 dB) is not silent.
func IsSilent(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "-inf")
}
