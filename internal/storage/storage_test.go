package storage

import "testing"

func TestOpenSetGet(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	opts, err := s.Options()
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 0 {
		t.Errorf("fresh store has options: %v", opts)
	}

	if err := s.SetOption("Hash", "128"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetOption("Threads", "4"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetOption("Hash", "256"); err != nil {
		t.Fatal(err)
	}

	opts, err = s.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts["Hash"] != "256" || opts["Threads"] != "4" {
		t.Errorf("Options() = %v", opts)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetOption("OwnBook", "true"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	opts, err := s.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts["OwnBook"] != "true" {
		t.Errorf("Options() after reopen = %v", opts)
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	if err := s.SetOption("Hash", "1"); err != nil {
		t.Errorf("SetOption on nil store: %v", err)
	}
	opts, err := s.Options()
	if err != nil || len(opts) != 0 {
		t.Errorf("Options on nil store: %v, %v", opts, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
}
