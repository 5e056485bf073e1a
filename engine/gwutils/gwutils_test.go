package gwutils

import (
	"fmt"
	"testing"
)

func TestRunPanicless(t *testing.T) {
	if !RunPanicless(func() {
		panic(1)
	}) {
		t.Errorf("should report panic")
	}
	if !RunPanicless(func() {
		panic(fmt.Errorf("bad"))
	}) {
		t.Errorf("should report panic")
	}
	if RunPanicless(func() {}) {
		t.Errorf("should not report panic")
	}
}

func TestCatchPanic(t *testing.T) {
	if err := CatchPanic(func() {}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CatchPanic(func() { panic("boom") }); err == nil {
		t.Errorf("should catch string panic")
	}
	if err := CatchPanic(func() { panic(fmt.Errorf("bad")) }); err == nil {
		t.Errorf("should catch error panic")
	}
}
