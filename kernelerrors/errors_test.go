package kernelerrors

import (
	"errors"
	"testing"
)

func TestKernelError_Is(t *testing.T) {
	a := New(CategoryDependency, SeverityCritical, CodeMissingDependency, "x")
	b := New(CategoryDependency, SeverityCritical, CodeMissingDependency, "y")
	if !errors.Is(a, b) {
		t.Error("errors with the same code should match Is")
	}

	c := New(CategoryDependency, SeverityCritical, CodeVersionConflict, "z")
	if errors.Is(a, c) {
		t.Error("errors with different codes should not match Is")
	}
}

func TestKernelError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := New(CategoryKernel, SeverityHigh, "X", "wrap").WithCause(cause)
	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap should expose the cause to errors.Is")
	}
}

func TestNewVersionConflict_Message(t *testing.T) {
	err := NewVersionConflict("b", "a", "^2.0.0", "1.2.0")
	want := "a (required ^2.0.0, found 1.2.0, required by b)"
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
	if err.Recoverable {
		t.Error("version conflicts must not be recoverable")
	}
}

func TestNewLifecycleError_RecoverableForOptional(t *testing.T) {
	required := NewLifecycleError("a", "setup", false, errors.New("boom"))
	if required.Recoverable {
		t.Error("required plugin lifecycle errors must not be recoverable")
	}

	optional := NewLifecycleError("a", "setup", true, errors.New("boom"))
	if !optional.Recoverable {
		t.Error("optional plugin lifecycle errors must be recoverable")
	}
}

func TestMultiError(t *testing.T) {
	m := &MultiError{}
	if m.HasErrors() {
		t.Error("empty MultiError should report no errors")
	}
	m.Add(New(CategoryKernel, SeverityLow, "A", "one"))
	m.Add(New(CategoryKernel, SeverityLow, "B", "two"))
	if !m.HasErrors() {
		t.Error("MultiError with entries should report HasErrors")
	}
	if len(m.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2", len(m.Errors))
	}
}

func TestKernelInitializationError(t *testing.T) {
	cause := errors.New("setup failed")
	err := &KernelInitializationError{PluginID: "b", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("KernelInitializationError should unwrap to its cause")
	}
}
