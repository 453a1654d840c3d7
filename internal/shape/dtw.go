package shape

import "math"

// DTWDistance calculates the Dynamic Time Warping distance between two point
// paths. Returns infinity if either path is empty. The distance is
// normalized by the longer path length, so values are comparable across
// strokes of different point counts.
func DTWDistance(path1, path2 []Point) float64 {
	n := len(path1)
	m := len(path2)

	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	dtw := make([][]float64, n+1)
	for i := range dtw {
		dtw[i] = make([]float64, m+1)
		for j := range dtw[i] {
			dtw[i][j] = math.Inf(1)
		}
	}
	dtw[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := path1[i-1].Dist(path2[j-1])
			dtw[i][j] = cost + min(dtw[i-1][j], dtw[i][j-1], dtw[i-1][j-1])
		}
	}

	return dtw[n][m] / float64(max(n, m))
}

// templateDistance returns the best DTW distance between a stroke and a
// closed template outline, searching over start-point rotations and both
// travel directions. A drawn square can start at any corner and go either
// way around; the raw DTW alignment alone does not absorb that.
func templateDistance(stroke, template []Point) float64 {
	n := len(template)
	if n == 0 {
		return math.Inf(1)
	}

	reversed := make([]Point, n)
	for i, p := range template {
		reversed[n-1-i] = p
	}

	best := math.Inf(1)
	step := n / rotationSteps
	if step == 0 {
		step = 1
	}

	for offset := 0; offset < n; offset += step {
		rotated := append(append([]Point{}, template[offset:]...), template[:offset]...)
		if d := DTWDistance(stroke, rotated); d < best {
			best = d
		}

		rotated = append(append([]Point{}, reversed[offset:]...), reversed[:offset]...)
		if d := DTWDistance(stroke, rotated); d < best {
			best = d
		}
	}

	return best
}

// rotationSteps is how many template start offsets templateDistance tries.
const rotationSteps = 8
