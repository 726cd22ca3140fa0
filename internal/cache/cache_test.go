package cache

import "testing"

func TestNewSeen(t *testing.T) {
	s := NewSeen()
	if s == nil {
		t.Fatal("NewSeen() returned nil")
	}
	if !s.Add("alice/repo") {
		t.Error("expected a fresh set to accept any name")
	}
}

func TestAdd(t *testing.T) {
	s := NewSeen()
	if !s.Add("alice/repo") {
		t.Fatal("expected first Add to report a new name")
	}
	if s.Add("alice/repo") {
		t.Error("expected second Add to report a duplicate")
	}
	if !s.Add("bob/repo") {
		t.Error("expected a different name to be new")
	}
}

func TestAdd_CaseInsensitive(t *testing.T) {
	s := NewSeen()
	s.Add("Alice/Repo")
	if s.Add("ALICE/REPO") {
		t.Error("names differing only in case should collide")
	}
}

func TestNewSeen_Independent(t *testing.T) {
	first := NewSeen()
	first.Add("alice/repo")
	if !NewSeen().Add("alice/repo") {
		t.Error("a new set must not share entries with an earlier one")
	}
}
