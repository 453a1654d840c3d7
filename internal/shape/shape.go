// Package shape recognizes geometric shapes in drawn stroke paths.
package shape

import (
	"math"
	"sort"
)

// Recognition thresholds and minimum point counts.
const (
	// ConfidenceThreshold filters out half-hearted matches.
	ConfidenceThreshold = 0.7

	minCirclePoints = 10
	minLinePoints   = 5
	minShapePoints  = 3
)

// Point is one sample of a drawn stroke in canvas pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance to another point.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Recognized is one shape found in a stroke.
type Recognized struct {
	Type       string             `json:"shape_type"`
	Confidence float64            `json:"confidence"`
	Properties map[string]float64 `json:"properties,omitempty"`
}

// Recognize analyzes a stroke path and returns every shape whose confidence
// clears the threshold, best match first. Fewer than three points never
// match anything.
func Recognize(points []Point) []Recognized {
	if len(points) < minShapePoints {
		return nil
	}

	var found []Recognized

	if r, ok := recognizeCircle(points); ok {
		found = append(found, r)
	}
	if r, ok := recognizeLine(points); ok {
		found = append(found, r)
	}

	normalized := Resample(Normalize(points), templatePoints)
	if r, ok := recognizeOutline(normalized, "rectangle", squareTemplate(templatePoints)); ok {
		found = append(found, r)
	}
	if r, ok := recognizeOutline(normalized, "triangle", triangleTemplate(templatePoints)); ok {
		found = append(found, r)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Confidence > found[j].Confidence
	})

	return found
}

// recognizeCircle checks how evenly the stroke's points spread around their
// centroid. A tight radius distribution means a circle.
func recognizeCircle(points []Point) (Recognized, bool) {
	if len(points) < minCirclePoints {
		return Recognized{}, false
	}

	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(points))
	cy /= float64(len(points))

	center := Point{X: cx, Y: cy}

	var sum, sumSq float64
	for _, p := range points {
		d := p.Dist(center)
		sum += d
		sumSq += d * d
	}
	mean := sum / float64(len(points))
	if mean == 0 {
		return Recognized{}, false
	}
	variance := sumSq/float64(len(points)) - mean*mean
	if variance < 0 {
		variance = 0
	}

	circularity := 1.0 - math.Sqrt(variance)/mean
	if circularity < ConfidenceThreshold {
		return Recognized{}, false
	}

	return Recognized{
		Type:       "circle",
		Confidence: circularity,
		Properties: map[string]float64{
			"center_x": cx,
			"center_y": cy,
			"radius":   mean,
			"area":     math.Pi * mean * mean,
		},
	}, true
}

// recognizeLine fits a least-squares line and scores it by R². Strokes that
// are nearly vertical are handled separately since regressing Y on X
// degenerates there.
func recognizeLine(points []Point) (Recognized, bool) {
	if len(points) < minLinePoints {
		return Recognized{}, false
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
		sumYY += p.Y * p.Y
	}

	varX := sumXX - sumX*sumX/n
	varY := sumYY - sumY*sumY/n

	length := points[0].Dist(points[len(points)-1])

	// Near-vertical stroke: score by how little X wanders relative to the
	// vertical extent.
	if varY > 0 && varX < varY*1e-3 {
		confidence := 1.0 - math.Sqrt(varX/varY)
		if confidence < ConfidenceThreshold {
			return Recognized{}, false
		}
		return Recognized{
			Type:       "line",
			Confidence: confidence,
			Properties: map[string]float64{"length": length, "vertical": 1},
		}, true
	}

	// Perfectly horizontal stroke: R² is undefined, the fit is exact.
	if varY == 0 {
		if varX == 0 {
			return Recognized{}, false
		}
		return Recognized{
			Type:       "line",
			Confidence: 1.0,
			Properties: map[string]float64{"slope": 0, "intercept": sumY / n, "length": length},
		}, true
	}

	if varX == 0 {
		return Recognized{}, false
	}

	slope := (sumXY - sumX*sumY/n) / varX
	intercept := (sumY - slope*sumX) / n

	var ssRes float64
	for _, p := range points {
		pred := slope*p.X + intercept
		ssRes += (p.Y - pred) * (p.Y - pred)
	}

	rSquared := 1.0 - ssRes/varY
	if rSquared < 0.8 {
		return Recognized{}, false
	}

	return Recognized{
		Type:       "line",
		Confidence: rSquared,
		Properties: map[string]float64{
			"slope":     slope,
			"intercept": intercept,
			"length":    length,
		},
	}, true
}

// recognizeOutline matches a normalized stroke against a closed template
// outline by DTW distance. The stroke must already be normalized and
// resampled to templatePoints.
func recognizeOutline(normalized []Point, shapeType string, template []Point) (Recognized, bool) {
	d := templateDistance(normalized, template)
	if math.IsInf(d, 1) {
		return Recognized{}, false
	}

	// Harsh scaling: a loose outline match should not outrank a solid
	// geometric recognizer.
	confidence := 1.0 - 2.0*d
	if confidence < ConfidenceThreshold {
		return Recognized{}, false
	}

	return Recognized{
		Type:       shapeType,
		Confidence: confidence,
	}, true
}
