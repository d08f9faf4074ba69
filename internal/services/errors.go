package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing transcript. Batch callers skip the file.
	ErrNotFound = errors.New("transcript not found")
	// ErrParse marks a malformed transcript. Treated the same as ErrNotFound
	// by multi-file operations.
	ErrParse = errors.New("transcript parse failure")
	// ErrCapabilityUnavailable marks a request that needs an optional
	// collaborator (embedding provider) that is not configured.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	// ErrUnknownSearchType marks an invalid search-type argument.
	ErrUnknownSearchType = errors.New("unknown search type")
	// ErrExternalTool marks a failed external command (renderer, transcriber).
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks invalid caller input other than the search type.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification with errors.Is. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Skippable reports whether a per-file error should be logged and skipped
// rather than failing a multi-file batch.
func Skippable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrParse)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
