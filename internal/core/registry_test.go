package core

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegistryConcurrentRegistrationOneWinner(t *testing.T) {
	reg := NewRegistry()

	const attempts = 32
	var wins atomic.Int64
	var losses atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := reg.Register("alice", &recordChannel{})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrNicknameTaken):
				losses.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", wins.Load())
	}
	if losses.Load() != attempts-1 {
		t.Fatalf("expected %d rejections, got %d", attempts-1, losses.Load())
	}
}

func TestRegistryUnregisterFreesNickname(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("bob", &recordChannel{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.Unregister("bob")
	if err := reg.Register("bob", &recordChannel{}); err != nil {
		t.Fatalf("re-register after unregister: %v", err)
	}

	// Unregistering an unknown nickname must be harmless.
	reg.Unregister("ghost")
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	ch := &recordChannel{}
	if err := reg.Register("carol", ch); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := reg.Lookup("carol")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != Channel(ch) {
		t.Fatal("lookup returned a different channel")
	}

	if _, err := reg.Lookup("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRegistryNicknamesSnapshot(t *testing.T) {
	reg := NewRegistry()
	for _, nick := range []string{"zoe", "alice", "mid"} {
		if err := reg.Register(nick, &recordChannel{}); err != nil {
			t.Fatalf("register %s: %v", nick, err)
		}
	}

	names := reg.Nicknames()
	want := []string{"alice", "mid", "zoe"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected sorted %v, got %v", want, names)
		}
	}
	if reg.Count() != 3 {
		t.Fatalf("expected count 3, got %d", reg.Count())
	}
}
