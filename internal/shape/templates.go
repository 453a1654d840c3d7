package shape

import "math"

// templatePoints is the resolution shapes and strokes are resampled to
// before DTW comparison.
const templatePoints = 64

// circleTemplate returns n points along a circle inscribed in the unit
// square, starting at angle zero.
func circleTemplate(n int) []Point {
	points := make([]Point, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = Point{X: 0.5 + 0.5*math.Cos(a), Y: 0.5 + 0.5*math.Sin(a)}
	}
	return points
}

// squareTemplate returns n points walking the unit square perimeter.
func squareTemplate(n int) []Point {
	corners := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	return walkOutline(corners, n)
}

// triangleTemplate returns n points walking a triangle inscribed in the
// unit square: apex top-center, base along the bottom.
func triangleTemplate(n int) []Point {
	corners := []Point{{0.5, 0}, {1, 1}, {0, 1}}
	return walkOutline(corners, n)
}

// walkOutline distributes n points uniformly by arc length along the closed
// polygon with the given corners.
func walkOutline(corners []Point, n int) []Point {
	closed := append(append([]Point{}, corners...), corners[0])
	return Resample(closed, n)
}

// Resample redistributes a path into n points spaced uniformly by arc
// length. Paths with fewer than two points are returned as-is.
func Resample(points []Point, n int) []Point {
	if len(points) < 2 || n < 2 {
		return points
	}

	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i-1].Dist(points[i])
	}
	if total == 0 {
		out := make([]Point, n)
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	step := total / float64(n-1)
	out := make([]Point, 0, n)
	out = append(out, points[0])

	carried := 0.0
	prev := points[0]
	for i := 1; i < len(points) && len(out) < n; i++ {
		seg := prev.Dist(points[i])
		for carried+seg >= step && len(out) < n {
			t := (step - carried) / seg
			prev = Point{
				X: prev.X + t*(points[i].X-prev.X),
				Y: prev.Y + t*(points[i].Y-prev.Y),
			}
			out = append(out, prev)
			seg = prev.Dist(points[i])
			carried = 0
		}
		carried += seg
		prev = points[i]
	}

	for len(out) < n {
		out = append(out, points[len(points)-1])
	}

	return out
}

// Normalize maps a path into the unit square by scaling each axis over its
// bounding box independently. Degenerate axes (zero extent) collapse to 0.5.
func Normalize(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY

	out := make([]Point, len(points))
	for i, p := range points {
		x, y := 0.5, 0.5
		if spanX > 0 {
			x = (p.X - minX) / spanX
		}
		if spanY > 0 {
			y = (p.Y - minY) / spanY
		}
		out[i] = Point{X: x, Y: y}
	}
	return out
}
