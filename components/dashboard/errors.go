package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigNotFound is returned by gateways when a user has no stored config.
	ErrConfigNotFound = errors.New("dashboard: configuration not found")
	// ErrCommitInProgress rejects session mutations while a save is pending.
	ErrCommitInProgress = errors.New("dashboard: commit in progress")

	errMissingGateway = errors.New("dashboard: persistence gateway not configured")
	errMissingUser    = errors.New("dashboard: viewer context missing user id")
)

// DuplicateWidgetError reports an add for an id already on the dashboard.
type DuplicateWidgetError struct {
	WidgetID string
}

func (e *DuplicateWidgetError) Error() string {
	return fmt.Sprintf("dashboard: widget %s already on dashboard", e.WidgetID)
}

// WidgetNotFoundError reports an update targeting an id that is not present.
type WidgetNotFoundError struct {
	WidgetID string
}

func (e *WidgetNotFoundError) Error() string {
	return fmt.Sprintf("dashboard: widget %s not found", e.WidgetID)
}

// UnknownDefinitionError reports a definition id outside the viewer's catalog.
type UnknownDefinitionError struct {
	DefinitionID string
	Role         Role
}

func (e *UnknownDefinitionError) Error() string {
	return fmt.Sprintf("dashboard: widget definition %s not available for role %q", e.DefinitionID, e.Role)
}

// IndexOutOfRangeError reports reorder indices outside [0, Len).
type IndexOutOfRangeError struct {
	From int
	To   int
	Len  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("dashboard: reorder %d -> %d out of range for %d widgets", e.From, e.To, e.Len)
}

// ValidationError carries every violation found in a configuration.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "dashboard: configuration invalid"
	}
	parts := make([]string, len(e.Violations))
	for idx, v := range e.Violations {
		parts[idx] = v.String()
	}
	return "dashboard: configuration invalid: " + strings.Join(parts, "; ")
}

// Has reports whether a violation of rule was recorded for widgetID.
func (e *ValidationError) Has(widgetID string, rule Rule) bool {
	for _, v := range e.Violations {
		if v.WidgetID == widgetID && v.Rule == rule {
			return true
		}
	}
	return false
}

// TransportError wraps a persistence failure. The engine does not retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dashboard: %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func isNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound)
}
