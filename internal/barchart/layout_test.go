package barchart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectDistribute(n int, size float64, d Distribution) (offs, dims []float64) {
	distribute(n, size, d, -1, func(_ int, off, dim float64) {
		offs = append(offs, off)
		dims = append(dims, dim)
	})
	return
}

func TestDistributeSpaceBetween(t *testing.T) {
	t.Parallel()

	offs, dims := collectDistribute(3, 0.6, SpaceBetween)
	// three items of 0.2 each, gaps of 0.2 between them
	require.InDelta(t, 0.0, offs[0], 1e-9)
	require.InDelta(t, 0.4, offs[1], 1e-9)
	require.InDelta(t, 0.8, offs[2], 1e-9)
	for _, d := range dims {
		require.InDelta(t, 0.2, d, 1e-9)
	}
	// last item ends flush with the slot
	require.InDelta(t, 1.0, offs[2]+dims[2], 1e-9)
}

func TestDistributeSpaceAround(t *testing.T) {
	t.Parallel()

	offs, dims := collectDistribute(2, 0.5, SpaceAround)
	// gap = 0.25, half a gap on each edge
	require.InDelta(t, 0.125, offs[0], 1e-9)
	require.InDelta(t, 0.625, offs[1], 1e-9)
	require.InDelta(t, 0.25, dims[0], 1e-9)
}

func TestDistributeSpaceEvenly(t *testing.T) {
	t.Parallel()

	offs, _ := collectDistribute(2, 0.4, SpaceEvenly)
	// gap = 0.2 before, between and after
	require.InDelta(t, 0.2, offs[0], 1e-9)
	require.InDelta(t, 0.6, offs[1], 1e-9)
}

func TestDistributeSingleItem(t *testing.T) {
	t.Parallel()

	offs, dims := collectDistribute(1, 1.0, SpaceBetween)
	require.Equal(t, []float64{0}, offs)
	require.Equal(t, []float64{1}, dims)
}

func TestDistributeOnly(t *testing.T) {
	t.Parallel()

	var calls int
	distribute(4, 0.8, SpaceBetween, 2, func(i int, off, dim float64) {
		calls++
		require.Equal(t, 2, i)
	})
	require.Equal(t, 1, calls)
}

func TestLayoutGroupedVertical(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.GroupWidth = 1.0
	cfg.BarWidth = 1.0
	series := [][]float64{
		{10, 20},
		{5, 15},
	}
	c := Layout(cfg, series, 100, 100, 0, 20)
	require.Len(t, c.Rects, 4)

	for _, r := range c.Rects {
		// bars grow up from the bottom edge
		require.Equal(t, 100, r.Y+r.H)
		require.True(t, r.W > 0)
	}

	// the 20 value fills the full height
	var full *Rect
	for i := range c.Rects {
		if c.Rects[i].Series == 0 && c.Rects[i].Group == 1 {
			full = &c.Rects[i]
		}
	}
	require.NotNil(t, full)
	require.Equal(t, 100, full.H)
}

func TestLayoutStacked(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Stacked = true
	cfg.GroupWidth = 1.0
	series := [][]float64{
		{10},
		{10},
	}
	c := Layout(cfg, series, 10, 100, 0, 20)
	require.Len(t, c.Rects, 2)

	// second series sits on top of the first
	require.Equal(t, 50, c.Rects[0].Y)
	require.Equal(t, 50, c.Rects[0].H)
	require.Equal(t, 0, c.Rects[1].Y)
	require.Equal(t, 50, c.Rects[1].H)
	// stacked bars share the full slot width
	require.Equal(t, c.Rects[0].X, c.Rects[1].X)
	require.Equal(t, c.Rects[0].W, c.Rects[1].W)
}

func TestLayoutStackedNegative(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Stacked = true
	cfg.GroupWidth = 1.0
	series := [][]float64{
		{-10},
		{-10},
	}
	c := Layout(cfg, series, 10, 100, -20, 0)
	require.Len(t, c.Rects, 2)
	// negative values stack downward
	require.Equal(t, 0, c.Rects[0].Y)
	require.Equal(t, 50, c.Rects[1].Y)
}

func TestLayoutSkipsNaN(t *testing.T) {
	t.Parallel()

	series := [][]float64{{1, math.NaN(), 3}}
	c := Layout(DefaultConfig(), series, 90, 10, 0, 3)
	require.Len(t, c.Rects, 2)
	for _, r := range c.Rects {
		require.NotEqual(t, 1, r.Group)
	}
}

func TestLayoutReverseDirection(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.GroupWidth = 1.0
	series := [][]float64{{1, 2}}

	fwd := Layout(cfg, series, 100, 10, 0, 2)
	cfg.Direction = Reverse
	rev := Layout(cfg, series, 100, 10, 0, 2)

	// group order mirrors across the slot axis
	require.Equal(t, fwd.Rects[0].X, rev.Rects[1].X)
	require.Equal(t, fwd.Rects[1].X, rev.Rects[0].X)
}

func TestLayoutHorizontal(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Orientation = Horizontal
	cfg.GroupWidth = 1.0
	series := [][]float64{{10}}
	c := Layout(cfg, series, 100, 20, 0, 10)
	require.Len(t, c.Rects, 1)
	r := c.Rects[0]
	// the bar grows along x from the origin
	require.Equal(t, 0, r.X)
	require.Equal(t, 100, r.W)
	require.Equal(t, 20, r.H)
}

func TestChartAt(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.GroupWidth = 1.0
	series := [][]float64{
		{10, 20},
		{5, 15},
	}
	c := Layout(cfg, series, 100, 100, 0, 20)

	for _, want := range c.Rects {
		got, ok := c.At(want.X+want.W/2, want.Y+want.H/2)
		require.True(t, ok)
		require.Equal(t, want.Series, got.Series)
		require.Equal(t, want.Group, got.Group)
	}

	_, ok := c.At(0, 0)
	require.False(t, ok, "top-left corner is empty space above the short bar")
}

func TestQuadtreeSplit(t *testing.T) {
	t.Parallel()

	qt := newQuadtree(0, 0, 100, 100, 0)
	// push past maxObjects to force a split
	for i := 0; i < 25; i++ {
		qt.add(Rect{X: (i * 4) % 100, Y: (i * 16) % 100, W: 3, H: 3, Series: 0, Group: i})
	}

	// rects on quadrant boundaries live in several quads, so count unique
	seen := map[int]struct{}{}
	qt.get(0, 0, 100, 100, func(r Rect) { seen[r.Group] = struct{}{} })
	require.Len(t, seen, 25)

	// a point query returns only nearby rects
	var near int
	qt.get(1, 1, 1, 1, func(Rect) { near++ })
	require.Less(t, near, 25)
}

func TestLayoutEmpty(t *testing.T) {
	t.Parallel()

	c := Layout(DefaultConfig(), nil, 100, 100, 0, 1)
	require.Empty(t, c.Rects)
	_, ok := c.At(50, 50)
	require.False(t, ok)
}
