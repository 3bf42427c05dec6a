package document

import "fmt"

// ValidationError reports malformed persisted data. Path locates the
// offending field, e.g. tracks[0].properties[1].keyframes[2].easing.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "invalid document: " + e.Reason
	}
	return fmt.Sprintf("invalid document: %s: %s", e.Path, e.Reason)
}

func invalid(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
