package memory

import (
	"sync"
	"testing"
)

func TestGet_DefaultsToOutside(t *testing.T) {
	s := NewMembershipStore()
	if s.Get("D1", "Z1") {
		t.Fatal("expected unseen pair to read as outside")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d records", s.Len())
	}
}

func TestSetGet(t *testing.T) {
	s := NewMembershipStore()
	s.Set("D1", "Z1", true)
	s.Set("D1", "Z2", false)

	if !s.Get("D1", "Z1") {
		t.Error("expected D1/Z1 inside")
	}
	if s.Get("D1", "Z2") {
		t.Error("expected D1/Z2 outside")
	}
	if s.Get("D2", "Z1") {
		t.Error("expected D2/Z1 outside")
	}

	s.Set("D1", "Z1", false)
	if s.Get("D1", "Z1") {
		t.Error("expected D1/Z1 outside after overwrite")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 records, got %d", s.Len())
	}
}

func TestInside(t *testing.T) {
	s := NewMembershipStore()
	s.Set("D1", "Z3", true)
	s.Set("D1", "Z1", true)
	s.Set("D1", "Z2", false)

	got := s.Inside("D1")
	if len(got) != 2 || got[0] != "Z1" || got[1] != "Z3" {
		t.Fatalf("expected [Z1 Z3], got %v", got)
	}
	if ids := s.Inside("UNKNOWN"); len(ids) != 0 {
		t.Fatalf("expected no zones, got %v", ids)
	}
}

func TestConcurrentReaders(t *testing.T) {
	s := NewMembershipStore()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Set("D1", "Z1", i%2 == 0)
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = s.Get("D1", "Z1")
				_ = s.Inside("D1")
			}
		}()
	}
	wg.Wait()
}
