package wheel

import "math"

// FullTurn is one complete rotation in degrees
const FullTurn = 360.0

// Normalize maps any angle into [0, 360)
func Normalize(deg float64) float64 {
	r := math.Mod(deg, FullTurn)
	if r < 0 {
		r += FullTurn
	}
	if r >= FullTurn {
		r -= FullTurn
	}
	return r
}

// SegmentAngle is the arc covered by one of n segments
func SegmentAngle(n int) float64 {
	if n < 1 {
		return FullTurn
	}
	return FullTurn / float64(n)
}

// ClampIndex pulls an out-of-range index to the nearest valid one
func ClampIndex(index, n int) int {
	if n < 1 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// SegmentCenter is the angle of the middle of segment index, measured on the wheel
func SegmentCenter(index, n int) float64 {
	seg := SegmentAngle(n)
	return float64(index)*seg + seg/2
}

// TargetAngle is the display rotation that puts the center of segment index under the pointer
func TargetAngle(index, n int, pointerOffsetDeg float64) float64 {
	return Normalize(FullTurn - SegmentCenter(index, n) + pointerOffsetDeg)
}

// WinningIndex is the exact inverse of TargetAngle: it returns the segment under the pointer
// for a display rotation. Any rotation inside a segment's arc maps to that segment.
func WinningIndex(rotation float64, n int, pointerOffsetDeg float64) int {
	if n < 1 {
		return 0
	}
	underPointer := Normalize(FullTurn - rotation + pointerOffsetDeg)
	idx := int(math.Floor(underPointer/SegmentAngle(n))) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// ForwardDelta is the non-negative rotation that brings current to target
func ForwardDelta(current, target float64) float64 {
	d := Normalize(target) - Normalize(current)
	if d < 0 {
		d += FullTurn
	}
	return d
}

// MaxJitter is the largest offset from a segment center that still lands inside the segment
func MaxJitter(n int, ratio float64) float64 {
	return ratio * SegmentAngle(n) / 2
}

// FinalRotation computes where a forward spin from current ends so that the pointer lands on
// target with the given jitter, after fullRotations complete turns.
func FinalRotation(current, target float64, fullRotations int, jitter float64) float64 {
	delta := ForwardDelta(current, target)
	if delta+jitter < 0 {
		delta += FullTurn
	}
	return current + FullTurn*float64(fullRotations) + delta + jitter
}
