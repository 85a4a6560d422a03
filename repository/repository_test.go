package repository

import (
	"errors"
	"testing"
)

func TestResult_OkAndErr(t *testing.T) {
	ok := Ok(42)
	if !ok.IsOk() {
		t.Fatal("expected Ok result to report IsOk")
	}
	if v, present := ok.Value(); !present || v != 42 {
		t.Errorf("Value() = %v, %v", v, present)
	}

	cause := errors.New("boom")
	failed := Err[int](cause)
	if failed.IsOk() {
		t.Fatal("expected Err result to report !IsOk")
	}
	if failed.Error() != cause {
		t.Errorf("Error() = %v, want %v", failed.Error(), cause)
	}
}

func TestResult_UnwrapPanicsOnErr(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Unwrap to panic on an Err result")
		}
	}()
	Err[int](errors.New("boom")).Unwrap()
}
