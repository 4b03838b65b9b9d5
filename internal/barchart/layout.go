// Package barchart computes grouped and stacked bar geometry for an
// arbitrary rendering backend. Given series values and a layout config it
// returns pixel rectangles plus a point hit-test; it knows nothing about how
// the rectangles get drawn.
package barchart

import "math"

// Distribution controls how leftover space is spread between items in a
// slot.
type Distribution int

const (
	SpaceBetween Distribution = iota
	SpaceAround
	SpaceEvenly
)

// Orientation selects the value axis.
type Orientation int

const (
	// Vertical lays groups along x with bars growing along y.
	Vertical Orientation = iota
	// Horizontal lays groups along y with bars growing along x.
	Horizontal
)

// Direction orders groups along the group axis.
type Direction int

const (
	Forward Direction = 1
	Reverse Direction = -1
)

// Config is the layout parameterization. Widths are fractions of the
// available slot.
type Config struct {
	Orientation Orientation
	Direction   Direction
	Stacked     bool
	GroupWidth  float64
	BarWidth    float64
	GroupDistr  Distribution
	BarDistr    Distribution
}

// DefaultConfig mirrors the plot defaults: grouped vertical bars, groups
// taking 60% of their slot.
func DefaultConfig() Config {
	return Config{
		Orientation: Vertical,
		Direction:   Forward,
		GroupWidth:  0.6,
		BarWidth:    1.0,
		GroupDistr:  SpaceBetween,
		BarDistr:    SpaceBetween,
	}
}

// Rect is one laid-out bar in pixel space, tagged with the series and group
// it represents.
type Rect struct {
	X, Y, W, H    int
	Series, Group int
}

// Chart holds the computed rectangles and their spatial index.
type Chart struct {
	Rects []Rect
	qt    *quadtree
}

// distribute spreads n items across a unit slot, calling each with the item
// offset and dimension as fractions. only limits the walk to a single item
// index; pass -1 for all.
func distribute(n int, sizeFactor float64, d Distribution, only int, each func(i int, off, dim float64)) {
	if n <= 0 {
		return
	}
	space := 1 - sizeFactor
	var gap float64
	switch d {
	case SpaceBetween:
		if n > 1 {
			gap = space / float64(n-1)
		}
	case SpaceAround:
		gap = space / float64(n)
	case SpaceEvenly:
		gap = space / float64(n+1)
	}
	var offs float64
	switch d {
	case SpaceAround:
		offs = gap / 2
	case SpaceEvenly:
		offs = gap
	}
	dim := sizeFactor / float64(n)
	if only >= 0 {
		each(only, offs+float64(only)*(dim+gap), dim)
		return
	}
	for i := 0; i < n; i++ {
		each(i, offs+float64(i)*(dim+gap), dim)
	}
}

// Layout places one bar per (series, group) value into a width×height pixel
// box scaled to [min, max]. NaN values produce no rectangle. Stacked mode
// accumulates same-sign values per group onto a full-width bar.
func Layout(cfg Config, series [][]float64, width, height int, min, max float64) *Chart {
	c := &Chart{qt: newQuadtree(0, 0, width, height, 0)}
	if len(series) == 0 || width <= 0 || height <= 0 {
		return c
	}
	if max <= min {
		max = min + 1
	}
	numGroups := 0
	for _, s := range series {
		if len(s) > numGroups {
			numGroups = len(s)
		}
	}
	if numGroups == 0 {
		return c
	}

	groupDim, valueDim := width, height
	if cfg.Orientation == Horizontal {
		groupDim, valueDim = height, width
	}

	// value -> pixel offset along the value axis, zero clamped into range
	pos := func(v float64) float64 {
		frac := (v - min) / (max - min)
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		return float64(valueDim) * frac
	}
	barsPerGroup := len(series)
	if cfg.Stacked {
		barsPerGroup = 1
	}

	stackPos := make([]float64, numGroups)
	stackNeg := make([]float64, numGroups)

	for si, s := range series {
		for gi := 0; gi < numGroups && gi < len(s); gi++ {
			v := s[gi]
			if math.IsNaN(v) {
				continue
			}
			var lo, hi float64
			if cfg.Stacked {
				if v >= 0 {
					lo, hi = stackPos[gi], stackPos[gi]+v
					stackPos[gi] = hi
				} else {
					lo, hi = stackNeg[gi]+v, stackNeg[gi]
					stackNeg[gi] = lo
				}
			} else if v >= 0 {
				lo, hi = 0, v
			} else {
				lo, hi = v, 0
			}
			a := pos(lo)
			b := pos(hi)

			distribute(numGroups, cfg.GroupWidth, cfg.GroupDistr, gi, func(_ int, groupOff, groupWid float64) {
				distribute(barsPerGroup, cfg.BarWidth, cfg.BarDistr, stackedIndex(cfg, si), func(_ int, barOff, barWid float64) {
					slotOff := float64(groupDim) * (groupOff + groupWid*barOff)
					slotWid := float64(groupDim) * groupWid * barWid
					if cfg.Direction == Reverse {
						slotOff = float64(groupDim) - slotOff - slotWid
					}
					r := valueRect(cfg.Orientation, slotOff, slotWid, a, b, valueDim)
					r.Series, r.Group = si, gi
					c.Rects = append(c.Rects, r)
					c.qt.add(r)
				})
			})
		}
	}
	return c
}

func stackedIndex(cfg Config, series int) int {
	if cfg.Stacked {
		return 0
	}
	return series
}

// valueRect converts slot and value extents to a pixel rect. The y axis
// points down, so vertical bars measure from the box bottom.
func valueRect(o Orientation, slotOff, slotWid, lo, hi float64, valueDim int) Rect {
	if o == Horizontal {
		return Rect{
			X: int(math.Round(lo)),
			Y: int(math.Round(slotOff)),
			W: int(math.Round(hi)) - int(math.Round(lo)),
			H: int(math.Round(slotWid)),
		}
	}
	top := valueDim - int(math.Round(hi))
	btm := valueDim - int(math.Round(lo))
	return Rect{
		X: int(math.Round(slotOff)),
		Y: top,
		W: int(math.Round(slotWid)),
		H: btm - top,
	}
}

// At returns the bar under a point, if any.
func (c *Chart) At(x, y int) (Rect, bool) {
	var hit Rect
	found := false
	c.qt.get(x, y, 1, 1, func(r Rect) {
		if !found && pointWithin(x, y, r) {
			hit, found = r, true
		}
	})
	return hit, found
}

func pointWithin(x, y int, r Rect) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
