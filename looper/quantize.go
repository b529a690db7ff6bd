package looper

import "math"

// LAG compensates input latency before recording or quantizing a clock
// (spec §4.1/§4.4), matching looper.py's LAG constant.
const LAG = 10.0 / 1000.0

// floorMod is Go's math.Mod with the sign of m, matching Python's %.
func floorMod(a, m float64) float64 {
	r := math.Mod(a, m)
	if r < 0 {
		r += m
	}
	return r
}

// snapToGrid rounds clock to the nearest multiple of step. Ties (clock
// exactly halfway between two grid points) round down, matching the
// source's `diff = clock % m; clock -= diff; if diff > m/2: clock += m`.
// It is idempotent: snapToGrid(snapToGrid(c, step), step) == snapToGrid(c, step).
func snapToGrid(clock, step float64) float64 {
	if step <= 0 {
		return clock
	}
	diff := floorMod(clock, step)
	clock -= diff
	if diff > step/2 {
		clock += step
	}
	return clock
}

// Quantize subtracts LAG then snaps clock to the nearest multiple of step.
// Called once per recorded event by Track.RecordOn when quantization is
// enabled (step > 0).
func Quantize(clock, step float64) float64 {
	return snapToGrid(clock-LAG, step)
}
