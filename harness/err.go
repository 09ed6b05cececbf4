package harness

import (
	"github.com/ezrec/up8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Cycle  int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("cycle %d line %d %v", err.Cycle, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
