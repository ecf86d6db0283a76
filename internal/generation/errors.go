package generation

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTaskType means a task carried a type tag outside the six
// known content types. This is a data error: the dispatcher performs no
// side effect before returning it.
var ErrUnsupportedTaskType = errors.New("unsupported task type")

// GenerationError wraps an upstream AI failure (transport, auth, or an
// unusable response) for a given pipeline stage.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func genErr(stage string, err error) error {
	return &GenerationError{Stage: stage, Err: err}
}
