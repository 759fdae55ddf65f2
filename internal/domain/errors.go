package domain

import (
	"errors"
	"fmt"
)

// IsAny reports whether err matches any of the targets.
func IsAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// StageError annotates a pipeline failure with the stage and the credential in use.
type StageError struct {
	Stage      string
	Credential Credential
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage=%s credential=%d: %v", e.Stage, e.Credential.Index, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the failing stage recorded on err, or "" if none.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
