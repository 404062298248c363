package rateengine

import (
	"fmt"

	"github.com/JonMunkholm/rateaudit/internal/core"
)

// UnavailableError describes a failed rate engine call.
// It matches core.ErrRateEngineUnavailable under errors.Is.
type UnavailableError struct {
	Status  int    // HTTP status, 0 if no response was received
	Message string // engine-supplied message or response excerpt
	Err     error  // underlying transport or decode error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("rate engine unavailable: status %d: %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("rate engine unavailable: status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("rate engine unavailable: %v", e.Err)
	case e.Message != "":
		return "rate engine unavailable: " + e.Message
	}
	return "rate engine unavailable"
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == core.ErrRateEngineUnavailable
}
