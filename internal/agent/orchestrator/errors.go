package orchestrator

import (
	"errors"
	"fmt"
)

var ErrEmptyMessage = errors.New("message is empty")

// StageError reports the fatal failure of a pipeline stage.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
