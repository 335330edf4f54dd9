// Package palette provides bead palettes and nearest-colour lookup.
package palette

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jmylchreest/beadgrid/internal/colour"
)

// ErrEmptyPalette is returned when an operation needs at least one palette colour.
var ErrEmptyPalette = errors.New("palette is empty")

// Colour is a single named bead colour.
type Colour struct {
	Key string     `json:"key"`
	Hex string     `json:"hex"`
	RGB colour.RGB `json:"rgb"`
}

// NewColour creates a Colour from a key and hex string.
func NewColour(key, hex string) (Colour, error) {
	rgb, ok := colour.ParseHex(hex)
	if !ok {
		return Colour{}, fmt.Errorf("invalid hex code %q for key %q", hex, key)
	}
	return Colour{Key: key, Hex: hex, RGB: rgb}, nil
}

// Palette is an ordered, read-only set of bead colours with unique keys.
// Order matters: FindClosest resolves ties to the earliest colour.
type Palette struct {
	colours []Colour
	index   map[string]int
}

// New creates a palette from the given colours.
// Duplicate keys do not fail: the last definition wins but keeps the position
// of the first occurrence.
func New(colours []Colour) (*Palette, error) {
	if len(colours) == 0 {
		return nil, ErrEmptyPalette
	}
	return build(colours), nil
}

// build creates a palette without rejecting an empty colour list.
func build(colours []Colour) *Palette {
	p := &Palette{
		colours: make([]Colour, 0, len(colours)),
		index:   make(map[string]int, len(colours)),
	}
	for _, c := range colours {
		if i, ok := p.index[c.Key]; ok {
			p.colours[i] = c
			continue
		}
		p.index[c.Key] = len(p.colours)
		p.colours = append(p.colours, c)
	}
	return p
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.colours)
}

// Colours returns a copy of the palette colours in palette order.
func (p *Palette) Colours() []Colour {
	if p == nil {
		return nil
	}
	out := make([]Colour, len(p.colours))
	copy(out, p.colours)
	return out
}

// Keys returns the palette keys in palette order.
func (p *Palette) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.colours))
	for i, c := range p.colours {
		keys[i] = c.Key
	}
	return keys
}

// Lookup returns the colour with the given key.
func (p *Palette) Lookup(key string) (Colour, bool) {
	if p == nil {
		return Colour{}, false
	}
	i, ok := p.index[key]
	if !ok {
		return Colour{}, false
	}
	return p.colours[i], true
}

// Contains reports whether the palette has a colour with the given key.
func (p *Palette) Contains(key string) bool {
	_, ok := p.Lookup(key)
	return ok
}

// FindClosest returns the palette colour nearest to target by Euclidean RGB distance.
// Ties go to the colour that appears first in the palette. An exact match ends the
// scan immediately.
func (p *Palette) FindClosest(target colour.RGB) (Colour, error) {
	if p.Len() == 0 {
		return Colour{}, ErrEmptyPalette
	}

	minDistance := math.Inf(1)
	closest := p.colours[0]
	for _, c := range p.colours {
		d := colour.Distance(target, c.RGB)
		if d < minDistance {
			minDistance = d
			closest = c
		}
		if d == 0 {
			break
		}
	}

	return closest, nil
}

// Without returns a new palette with the given keys removed. The result may be
// empty; FindClosest on it returns ErrEmptyPalette.
func (p *Palette) Without(keys ...string) *Palette {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	kept := make([]Colour, 0, p.Len())
	for _, c := range p.Colours() {
		if !drop[c.Key] {
			kept = append(kept, c)
		}
	}
	return build(kept)
}

// Subset returns a new palette containing only the given keys, in this palette's
// order. Keys not present in the palette are ignored.
func (p *Palette) Subset(keys []string) *Palette {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	kept := make([]Colour, 0, len(keys))
	for _, c := range p.Colours() {
		if want[c.Key] {
			kept = append(kept, c)
		}
	}
	return build(kept)
}

// Fallback picks the colour used for cells the palette cannot express.
// It prefers preferredKey, then the first pure white entry, then the first entry.
func (p *Palette) Fallback(preferredKey string) (Colour, error) {
	if p.Len() == 0 {
		return Colour{}, ErrEmptyPalette
	}
	if preferredKey != "" {
		if c, ok := p.Lookup(preferredKey); ok {
			return c, nil
		}
	}
	for _, c := range p.colours {
		if strings.EqualFold(c.Hex, "#FFFFFF") || c.RGB == colour.White {
			return c, nil
		}
	}
	return p.colours[0], nil
}

// All returns an iterator over all colours in the palette.
func (p *Palette) All() func(func(int, Colour) bool) {
	return func(yield func(int, Colour) bool) {
		if p == nil {
			return
		}
		for i, c := range p.colours {
			if !yield(i, c) {
				return
			}
		}
	}
}
