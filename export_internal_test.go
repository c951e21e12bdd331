package goplot

import "testing"

// ============================================================
// Export line splitting
// ============================================================

func TestSegments_MatchStrokes(t *testing.T) {
	r := DefaultRange
	points, err := Sample(MustCompile("tan(x)"), r, 0)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	vp := Viewport{Width: 800, Height: 400}
	mapped, _ := MapPoints(points, r, vp)
	strokes := Strokes(mapped, vp)

	lo, hi := VisibleY(vp)
	segs := segments(points, (hi-lo)/2)
	if len(segs) < 2 {
		t.Fatalf("tan(x) exported as %d line(s), poles bridged", len(segs))
	}
	if len(segs) != len(strokes) {
		t.Fatalf("export has %d lines, canvas has %d strokes", len(segs), len(strokes))
	}
	for i := range segs {
		if len(segs[i]) != len(strokes[i]) {
			t.Errorf("line %d has %d points, stroke has %d", i, len(segs[i]), len(strokes[i]))
		}
	}
}

func TestSegments_Breaks(t *testing.T) {
	points, _ := Sample(MustCompile("sqrt(x)"), SampleRange{Min: -2, Max: 2, Precision: 4}, 0)
	segs := segments(points, 4)
	if len(segs) != 1 || len(segs[0]) != 3 {
		t.Errorf("segments = %v, want one line of 3 points", segs)
	}
	if segs := segments(nil, 4); len(segs) != 0 {
		t.Errorf("segments(nil) = %v", segs)
	}
}
