package mapmesh

import (
	"errors"
	"fmt"
)

// ErrNoFeatures is returned when an input holds nothing the builder can use.
var ErrNoFeatures = errors.New("no usable features in dataset")

// StageError is a fatal build failure. Feature is the input index of the
// feature being processed, or -1 when the failure is not feature specific.
type StageError struct {
	Stage   string
	Feature int
	Err     error
}

func (e *StageError) Error() string {
	if e.Feature < 0 {
		return fmt.Sprintf("[%s] in pkg [mapmesh] encountered: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("[%s] in pkg [mapmesh] encountered: feature %d: %v", e.Stage, e.Feature, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, feature int, err error) error {
	return &StageError{Stage: stage, Feature: feature, Err: err}
}

// Warning is a non-fatal finding. Feature is -1 when it concerns a whole
// layer or the input as a whole.
type Warning struct {
	Layer   string `json:"layer"`
	Feature int    `json:"feature"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Feature < 0 {
		return fmt.Sprintf("%s: %s", w.Layer, w.Message)
	}
	return fmt.Sprintf("%s feature %d: %s", w.Layer, w.Feature, w.Message)
}
