// Package xerrors provides small error constructors that record the caller
// program counter, so wrapped errors stay cheap but locatable.
package xerrors

import (
	"fmt"
	"runtime"
)

type wrap struct {
	err error
	msg string
	pc  uintptr
}

func (w *wrap) Error() string { return w.msg + ": " + w.err.Error() }
func (w *wrap) Unwrap() error { return w.err }
func (w *wrap) PC() uintptr   { return w.pc }

type base struct {
	msg string
	pc  uintptr
}

func (b *base) Error() string { return b.msg }
func (b *base) PC() uintptr   { return b.pc }

func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	// 2 skips runtime.Callers + callerPC
	if n := runtime.Callers(2+skip, pcs[:]); n == 0 {
		return 0
	}
	return pcs[0]
}

// Wrap annotates err with msg. Returns nil for a nil err.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrap{err: err, msg: msg, pc: callerPC(1)}
}

// Wrapf annotates err with a formatted message. Returns nil for a nil err.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrap{err: err, msg: fmt.Sprintf(format, args...), pc: callerPC(1)}
}

func New(msg string) error { return &base{msg: msg, pc: callerPC(1)} }

func Newf(f string, args ...any) error {
	return &base{msg: fmt.Sprintf(f, args...), pc: callerPC(1)}
}
