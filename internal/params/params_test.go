package params

import (
	"errors"
	"testing"
)

func testSet() Set {
	return Set{
		{Name: "n", Label: "Agents", Value: 50, Min: 10, Max: 100, Step: 1},
		{Name: "width", Label: "Width", Value: 10, Min: 5, Max: 50, Step: 1},
	}
}

func TestGet(t *testing.T) {
	s := testSet()

	v, err := s.Get("n")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 50 {
		t.Errorf("expected 50, got %f", v)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestApplyClamps(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{60, 60},
		{5, 10},
		{500, 100},
	}

	for _, tt := range tests {
		s := testSet()
		if err := s.Apply("n", tt.value); err != nil {
			t.Fatalf("apply %f: %v", tt.value, err)
		}
		got, _ := s.Get("n")
		if got != tt.want {
			t.Errorf("apply %f: expected %f, got %f", tt.value, tt.want, got)
		}
	}
}

func TestPutSkipsClamping(t *testing.T) {
	s := testSet()
	if err := s.Put("n", 10000); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get("n")
	if got != 10000 {
		t.Errorf("expected 10000, got %f", got)
	}
	if err := s.Put("missing", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := testSet()
	c := s.Clone()

	if err := c.Apply("n", 99); err != nil {
		t.Fatal(err)
	}
	orig, _ := s.Get("n")
	if orig != 50 {
		t.Errorf("clone mutation leaked into original: %f", orig)
	}
}

func TestInt(t *testing.T) {
	s := Set{{Name: "n", Value: 49.6, Min: 0, Max: 100, Step: 1}}
	v, err := s.Int("n")
	if err != nil {
		t.Fatal(err)
	}
	if v != 50 {
		t.Errorf("expected 50, got %d", v)
	}
}

func TestValues(t *testing.T) {
	m := testSet().Values()
	if len(m) != 2 || m["n"] != 50 || m["width"] != 10 {
		t.Errorf("unexpected values map: %v", m)
	}
}
