package shape

import (
	"math"
	"testing"
)

func circlePoints(cx, cy, r float64, n int) []Point {
	points := make([]Point, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return points
}

func linePoints(x0, y0, x1, y1 float64, n int) []Point {
	points := make([]Point, n)
	for i := range points {
		t := float64(i) / float64(n-1)
		points[i] = Point{X: x0 + t*(x1-x0), Y: y0 + t*(y1-y0)}
	}
	return points
}

func outlinePoints(corners []Point, perEdge int) []Point {
	var points []Point
	for i := range corners {
		next := corners[(i+1)%len(corners)]
		points = append(points, linePoints(corners[i].X, corners[i].Y, next.X, next.Y, perEdge)...)
	}
	return points
}

func bestShape(t *testing.T, points []Point) Recognized {
	t.Helper()
	found := Recognize(points)
	if len(found) == 0 {
		t.Fatal("no shapes recognized")
	}
	return found[0]
}

func TestRecognize_Circle(t *testing.T) {
	best := bestShape(t, circlePoints(200, 200, 100, 36))

	if best.Type != "circle" {
		t.Fatalf("best = %q (%.3f), want circle", best.Type, best.Confidence)
	}
	if best.Confidence < 0.9 {
		t.Errorf("confidence = %.3f, want >= 0.9 for a perfect circle", best.Confidence)
	}
	if r := best.Properties["radius"]; math.Abs(r-100) > 1 {
		t.Errorf("radius = %.2f, want ~100", r)
	}
}

func TestRecognize_JitteredCircle(t *testing.T) {
	points := circlePoints(200, 200, 100, 36)
	for i := range points {
		// Deterministic wobble within a few pixels.
		points[i].X += 3 * math.Sin(float64(i)*1.7)
		points[i].Y += 3 * math.Cos(float64(i)*2.3)
	}

	best := bestShape(t, points)
	if best.Type != "circle" {
		t.Errorf("best = %q, want circle despite jitter", best.Type)
	}
}

func TestRecognize_Line(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"diagonal", linePoints(0, 0, 100, 80, 20)},
		{"horizontal", linePoints(0, 50, 200, 50, 20)},
		{"vertical", linePoints(50, 0, 50, 200, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := bestShape(t, tt.points)
			if best.Type != "line" {
				t.Errorf("best = %q (%.3f), want line", best.Type, best.Confidence)
			}
		})
	}
}

func TestRecognize_Rectangle(t *testing.T) {
	corners := []Point{{0, 0}, {100, 0}, {100, 60}, {0, 60}}
	best := bestShape(t, outlinePoints(corners, 16))

	if best.Type != "rectangle" {
		t.Errorf("best = %q (%.3f), want rectangle", best.Type, best.Confidence)
	}
}

func TestRecognize_Triangle(t *testing.T) {
	corners := []Point{{50, 0}, {100, 100}, {0, 100}}
	best := bestShape(t, outlinePoints(corners, 20))

	if best.Type != "triangle" {
		t.Errorf("best = %q (%.3f), want triangle", best.Type, best.Confidence)
	}
}

func TestRecognize_TooFewPoints(t *testing.T) {
	if got := Recognize([]Point{{1, 1}, {2, 2}}); got != nil {
		t.Errorf("Recognize() with 2 points = %v, want nil", got)
	}
	if got := Recognize(nil); got != nil {
		t.Errorf("Recognize(nil) = %v, want nil", got)
	}
}

func TestRecognize_Scribble(t *testing.T) {
	// A zig-zag scribble should not be a line or circle.
	var points []Point
	for i := 0; i < 40; i++ {
		y := 0.0
		if i%2 == 1 {
			y = 100
		}
		points = append(points, Point{X: float64(i * 10), Y: y})
	}

	for _, r := range Recognize(points) {
		if r.Type == "line" || r.Type == "circle" {
			t.Errorf("scribble recognized as %q (%.3f)", r.Type, r.Confidence)
		}
	}
}

func TestDTWDistance(t *testing.T) {
	path := circlePoints(0, 0, 1, 16)

	if d := DTWDistance(path, path); d != 0 {
		t.Errorf("self distance = %f, want 0", d)
	}

	if d := DTWDistance(nil, path); !math.IsInf(d, 1) {
		t.Errorf("empty path distance = %f, want +Inf", d)
	}

	shifted := make([]Point, len(path))
	for i, p := range path {
		shifted[i] = Point{X: p.X + 5, Y: p.Y}
	}
	if d := DTWDistance(path, shifted); d < 1 {
		t.Errorf("distance to shifted path = %f, want substantial", d)
	}
}

func TestResample(t *testing.T) {
	points := linePoints(0, 0, 100, 0, 5)
	out := Resample(points, 11)

	if len(out) != 11 {
		t.Fatalf("len = %d, want 11", len(out))
	}

	// Uniform spacing along the segment.
	for i := 1; i < len(out); i++ {
		if gap := out[i-1].Dist(out[i]); math.Abs(gap-10) > 0.5 {
			t.Errorf("gap %d = %.2f, want ~10", i, gap)
		}
	}
}

func TestNormalize(t *testing.T) {
	points := []Point{{100, 200}, {300, 200}, {300, 400}, {100, 400}}
	out := Normalize(points)

	want := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, p := range out {
		if math.Abs(p.X-want[i].X) > 1e-9 || math.Abs(p.Y-want[i].Y) > 1e-9 {
			t.Errorf("point %d = %+v, want %+v", i, p, want[i])
		}
	}

	// Degenerate axis collapses to the middle.
	out = Normalize([]Point{{5, 1}, {5, 2}})
	if out[0].X != 0.5 || out[1].X != 0.5 {
		t.Errorf("degenerate X axis = %+v, want 0.5", out)
	}
}
