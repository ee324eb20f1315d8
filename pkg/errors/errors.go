// Package errors annotates errors with where they are wrapped.
//
//	wrapped := xe.Wrap(err)
//
// The message of wrapped is prefixed by the function, file and line of the
// call site. Chained wrappings read from the outermost caller to the origin,
// separated with "<-".
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	err      error
}

func (e *ErrWithCaller) File() string {
	return e.file
}

func (e *ErrWithCaller) Line() int {
	return e.line
}

func (e *ErrWithCaller) Func() string {
	return e.funcname
}

func (e *ErrWithCaller) Error() string {
	return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

func New(text string) error {
	return wrap(errors.New(text), 1)
}

// Wrap annotates err with the caller. nil stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return wrap(err, 1)
}

func wrap(err error, depth int) error {
	pc, file, line, ok := runtime.Caller(depth + 1)
	funcname := "(unknown func)"
	if !ok {
		file = "?"
		line = -1
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &ErrWithCaller{
		funcname: funcname,
		file:     file,
		line:     line,
		err:      err,
	}
}
