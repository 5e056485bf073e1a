package gwutils

import (
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/pkg/errors"
)

// RunPanicless calls a function panic-freely
func RunPanicless(f func()) (paniced bool) {
	defer func() {
		err := recover()
		if err != nil {
			gwlog.TraceError("%v panic: %v", f, err)
			paniced = true
		}
	}()

	f()
	return
}

// CatchPanic calls a function and returns the recovered panic as an error, if any
func CatchPanic(f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok {
			err = errors.Wrap(e, "panic")
		} else {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	f()
	return
}
