package mediautil

import (
	"path/filepath"
	"strings"
)

// Kind identifies a supported video container.
type Kind int

const (
	KindUnknown Kind = iota
	KindMP4
	KindAVI
	KindMKV
	KindMOV
)

func (k Kind) String() string {
	switch k {
	case KindMP4:
		return "mp4"
	case KindAVI:
		return "avi"
	case KindMKV:
		return "mkv"
	case KindMOV:
		return "mov"
	default:
		return "unknown"
	}
}

var extensions = map[string]Kind{
	".mp4": KindMP4,
	".avi": KindAVI,
	".mkv": KindMKV,
	".mov": KindMOV,
}

// DetectExt maps a file extension (with or without the leading dot) to a Kind.
// Matching is case-insensitive.
func DetectExt(ext string) Kind {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return KindUnknown
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if kind, ok := extensions[ext]; ok {
		return kind
	}
	return KindUnknown
}

// DetectPath reports the container kind implied by the path's extension.
func DetectPath(path string) Kind {
	return DetectExt(filepath.Ext(path))
}

// IsVideo reports whether path carries one of the supported video extensions.
func IsVideo(path string) bool {
	return DetectPath(path) != KindUnknown
}

// Extensions returns the supported extensions, lowercase with leading dot.
func Extensions() []string {
	return []string{".mp4", ".avi", ".mkv", ".mov"}
}
