// Package params describes user-adjustable model inputs.
//
// A Set is declarative: the frontends render it as sliders and the
// model registry reads it back when building a model. Changing a value
// never mutates a live model; callers rebuild the model from the
// updated set.
package params

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownParam = errors.New("params: unknown parameter")

// Slider describes a numeric input control.
type Slider struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
}

// Choice describes a named selection between fixed options, e.g. which
// model a frontend is driving.
type Choice struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Value   string   `json:"value"`
	Options []string `json:"options"`
}

// Set is an ordered collection of sliders.
type Set []Slider

// Get returns the current value of a named parameter.
func (s Set) Get(name string) (float64, error) {
	for i := range s {
		if s[i].Name == name {
			return s[i].Value, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

// Int returns a named parameter rounded to the nearest integer.
func (s Set) Int(name string) (int, error) {
	v, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	return int(math.Round(v)), nil
}

// Apply sets a named parameter, clamped to its [Min, Max] range.
func (s Set) Apply(name string, value float64) error {
	for i := range s {
		if s[i].Name != name {
			continue
		}
		s[i].Value = clamp(value, s[i].Min, s[i].Max)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

// Put sets a named parameter without clamping. Config files and batch
// presets are trusted sources and may exceed the interactive slider
// range.
func (s Set) Put(name string, value float64) error {
	for i := range s {
		if s[i].Name == name {
			s[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	copy(c, s)
	return c
}

// Values flattens the set into a name -> value map, for run metadata.
func (s Set) Values() map[string]float64 {
	m := make(map[string]float64, len(s))
	for i := range s {
		m[s[i].Name] = s[i].Value
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
