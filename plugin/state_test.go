package plugin

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnloaded, "unloaded"},
		{StateLoading, "loading"},
		{StateLoaded, "loaded"},
		{StateError, "error"},
		{StateDestroyed, "destroyed"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsTerminal(t *testing.T) {
	if StateLoaded.IsTerminal() {
		t.Error("Loaded should not be terminal")
	}
	if StateLoading.IsTerminal() {
		t.Error("Loading should not be terminal")
	}
	if !StateError.IsTerminal() {
		t.Error("Error should be terminal")
	}
	if !StateDestroyed.IsTerminal() {
		t.Error("Destroyed should be terminal")
	}
}
