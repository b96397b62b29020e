package export

import (
	"math"
	"sort"
)

// effectiveRange resolves the sampling range: an unset boundary anchors to
// the observed extent of the data.
func (cfg *config) effectiveRange(g *wideGrid) (int64, int64) {
	start, end := cfg.start, cfg.end
	if len(g.times) > 0 {
		if start == math.MinInt32 {
			start = g.times[0]
		}
		if end == math.MaxInt32 {
			end = g.times[len(g.times)-1]
		}
	}

	return start, end
}

// sampleActual restricts a filled grid to nearest-observation sampling.
//
// Starting at the range start, each step selects the not-yet-selected
// observation timestamp closest to the current target tick, emits that row at
// the observation's own timestamp, and re-anchors the next target at the
// selected timestamp plus the interval. Selection only moves forward, so no
// observation is picked twice and selected timestamps are non-decreasing.
func sampleActual(g *wideGrid, cfg *config) *wideGrid {
	if len(g.times) == 0 {
		return g
	}

	start, end := cfg.effectiveRange(g)
	sampled := &wideGrid{tags: g.tags}

	lastIdx := -1
	target := start
	for target <= end && lastIdx < len(g.times)-1 {
		idx := nearestAfter(g.times, lastIdx, target)
		sampled.times = append(sampled.times, g.times[idx])
		sampled.cells = append(sampled.cells, g.cells[idx])

		target = g.times[idx] + cfg.sampleInterval
		lastIdx = idx
	}

	return sampled
}

// nearestAfter returns the index of the timestamp closest to target among
// times[after+1:]. Ties pick the earlier timestamp.
func nearestAfter(times []int64, after int, target int64) int {
	lo := after + 1
	i := lo + sort.Search(len(times)-lo, func(k int) bool {
		return times[lo+k] >= target
	})

	if i == lo {
		return i
	}
	if i == len(times) {
		return i - 1
	}
	if target-times[i-1] <= times[i]-target {
		return i - 1
	}

	return i
}

// interpolateGrid resamples an unfilled grid onto the fixed nominal grid
// start, start+interval, ..., end. Each tag is interpolated independently
// between its bracketing observations; ticks before the first or after the
// last observation clamp to that boundary value. A tag with fewer than two
// observations yields NaN at every tick. An empty match set yields an empty
// grid, no ticks.
func interpolateGrid(g *wideGrid, cfg *config) *wideGrid {
	if len(g.times) == 0 {
		return g
	}

	start, end := cfg.effectiveRange(g)

	var ticks []int64
	for t := start; t <= end; t += cfg.sampleInterval {
		ticks = append(ticks, t)
	}

	out := &wideGrid{
		times: ticks,
		tags:  g.tags,
		cells: make([][]float64, len(ticks)),
	}
	for i := range out.cells {
		row := make([]float64, len(g.tags))
		for j := range row {
			row[j] = math.NaN()
		}
		out.cells[i] = row
	}

	for col := range g.tags {
		times, values := columnSeries(g, col)
		if len(times) < 2 {
			continue
		}

		for i, tick := range ticks {
			out.cells[i][col] = interpolateAt(times, values, tick)
		}
	}

	return out
}

// columnSeries extracts a column's real observations in timestamp order.
func columnSeries(g *wideGrid, col int) ([]int64, []float64) {
	var times []int64
	var values []float64
	for row := range g.times {
		if v := g.cells[row][col]; !math.IsNaN(v) {
			times = append(times, g.times[row])
			values = append(values, v)
		}
	}

	return times, values
}

func interpolateAt(times []int64, values []float64, tick int64) float64 {
	if tick <= times[0] {
		return values[0]
	}
	if tick >= times[len(times)-1] {
		return values[len(values)-1]
	}

	i := sort.Search(len(times), func(k int) bool {
		return times[k] >= tick
	})
	if times[i] == tick {
		return values[i]
	}

	t0, t1 := times[i-1], times[i]
	v0, v1 := values[i-1], values[i]
	frac := float64(tick-t0) / float64(t1-t0)

	return v0 + (v1-v0)*frac
}
