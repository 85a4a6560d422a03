package memory

import "testing"

type widget struct {
	ID   string
	Name string
}

func (w widget) RepositoryName() string { return w.Name }

func TestStore_SaveFindRemove(t *testing.T) {
	s := New[widget]()

	s.Save("1", widget{ID: "1", Name: "alpha"})
	s.Save("2", widget{ID: "2", Name: "beta"})

	res := s.FindByID("1")
	if !res.IsOk() {
		t.Fatalf("FindByID(1) failed: %v", res.Error())
	}
	if v, _ := res.Value(); v.Name != "alpha" {
		t.Errorf("got %+v", v)
	}

	if s.FindByID("missing").IsOk() {
		t.Error("expected FindByID(missing) to fail")
	}

	byName := s.FindByName("beta")
	if !byName.IsOk() {
		t.Fatalf("FindByName(beta) failed: %v", byName.Error())
	}
	if v, _ := byName.Value(); v.ID != "2" {
		t.Errorf("got %+v", v)
	}

	all := s.FindAll()
	if vs, _ := all.Value(); len(vs) != 2 {
		t.Errorf("FindAll() = %v, want 2 entries", vs)
	}

	existsBefore := s.Exists("1")
	if v, _ := existsBefore.Value(); !v {
		t.Error("expected Exists(1) to be true")
	}

	removed := s.Remove("1")
	if v, _ := removed.Value(); !v {
		t.Error("expected Remove(1) to report true")
	}
	if s.FindByID("1").IsOk() {
		t.Error("expected FindByID(1) to fail after removal")
	}

	removedAgain := s.Remove("1")
	if v, _ := removedAgain.Value(); v {
		t.Error("expected a second Remove(1) to report false")
	}
}
