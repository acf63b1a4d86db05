// Package catalog holds star catalogs as an immutable arena with an id→index map.
package catalog

import (
	"errors"
	"fmt"
)

// Reference epochs as Julian Dates.
const (
	EpochHipparcos = 2448349.0625 // J1991.25
	EpochJ2000     = 2451545.0
)

// ErrDuplicateID is returned by New when two stars share an id.
var ErrDuplicateID = errors.New("duplicate star id")

// Star is one catalog entry. Positions are ICRS at the entry's epoch.
type Star struct {
	ID     int    // Hipparcos number
	Name   string // Common name, empty for most catalog rows
	RAdeg  float64
	DecDeg float64
	Mag    float64 // Apparent visual magnitude (lower = brighter)

	PMRAmas     float64 // Proper motion in RA (mas/yr, includes cos dec)
	PMDecmas    float64 // Proper motion in Dec (mas/yr)
	ParallaxMas float64 // Parallax (mas); zero or negative means unknown

	EpochJD float64 // Position epoch; zero means J1991.25
}

// Epoch returns the Julian Date the position refers to.
func (s Star) Epoch() float64 {
	if s.EpochJD == 0 {
		return EpochHipparcos
	}
	return s.EpochJD
}

// Catalog is an ordered, read-only star list. The position of a star in
// Stars is its arena index; every derived table is keyed by it.
type Catalog struct {
	Stars []Star
	index map[int]int
}

// New builds a catalog. Insertion order is preserved.
func New(stars []Star) (*Catalog, error) {
	index := make(map[int]int, len(stars))
	for i, s := range stars {
		if prev, ok := index[s.ID]; ok {
			return nil, fmt.Errorf("%w: HIP %d at rows %d and %d", ErrDuplicateID, s.ID, prev, i)
		}
		index[s.ID] = i
	}
	return &Catalog{Stars: stars, index: index}, nil
}

// Lookup returns the arena index of a star id.
func (c *Catalog) Lookup(id int) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Len returns the number of stars.
func (c *Catalog) Len() int {
	return len(c.Stars)
}

// At returns the star at arena index i.
func (c *Catalog) At(i int) Star {
	return c.Stars[i]
}
