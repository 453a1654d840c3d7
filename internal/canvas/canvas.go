// Package canvas implements the drawing surface strokes are painted onto
// during an air drawing session.
package canvas

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

// Default canvas dimensions in pixels.
const (
	DefaultWidth  = 950
	DefaultHeight = 550
)

// Stroke and eraser rendering parameters.
const (
	strokeThickness = 5
	eraseThickness  = 15
)

var (
	strokeColor = color.RGBA{R: 255, G: 0, B: 255, A: 0}
	eraseColor  = color.RGBA{}
)

// Canvas is the session's drawing surface. Every operation runs under
// exclusive ownership of the underlying buffer for its duration; callers
// never see a half-applied stroke.
type Canvas struct {
	mu      sync.Mutex
	mat     gocv.Mat
	width   int
	height  int
	penX    int
	penY    int
	penDown bool
}

// New creates a blank canvas with the given dimensions. Non-positive
// dimensions fall back to the defaults.
func New(width, height int) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Canvas{
		mat:    gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
		width:  width,
		height: height,
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// StrokeTo extends the current stroke to (x, y). The first call after a pen
// lift only places the pen, so a new stroke never connects to the previous
// one.
func (c *Canvas) StrokeTo(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lineTo(x, y, strokeColor, strokeThickness)
}

// EraseTo drags the eraser to (x, y), painting a wide background-colored
// line along the way. It shares the pen position with StrokeTo.
func (c *Canvas) EraseTo(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lineTo(x, y, eraseColor, eraseThickness)
}

func (c *Canvas) lineTo(x, y int, col color.RGBA, thickness int) {
	if !c.penDown {
		c.penX, c.penY = x, y
		c.penDown = true
		return
	}

	gocv.Line(&c.mat, image.Point{X: c.penX, Y: c.penY}, image.Point{X: x, Y: y}, col, thickness)
	c.penX, c.penY = x, y
}

// LiftPen ends the current stroke; the next StrokeTo starts a fresh one.
func (c *Canvas) LiftPen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.penDown = false
}

// PenDown reports whether a stroke is currently in progress.
func (c *Canvas) PenDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.penDown
}

// Clear wipes all drawn content and lifts the pen.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
	c.penDown = false
}

// Overlay merges the drawn content onto a camera frame in place: canvas
// pixels replace frame pixels wherever something was drawn, the rest of the
// frame shows through.
func (c *Canvas) Overlay(frame *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if frame.Cols() != c.width || frame.Rows() != c.height {
		return fmt.Errorf("frame size %dx%d does not match canvas %dx%d",
			frame.Cols(), frame.Rows(), c.width, c.height)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(c.mat, &gray, gocv.ColorBGRToGray)

	inv := gocv.NewMat()
	defer inv.Close()
	gocv.Threshold(gray, &inv, 50, 255, gocv.ThresholdBinaryInv)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.CvtColor(inv, &mask, gocv.ColorGrayToBGR)

	gocv.BitwiseAnd(*frame, mask, frame)
	gocv.BitwiseOr(*frame, c.mat, frame)

	return nil
}

// EncodePNG returns the canvas content as a base64 PNG data URL.
func (c *Canvas) EncodePNG() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := gocv.IMEncode(".png", c.mat)
	if err != nil {
		return "", fmt.Errorf("encode canvas: %w", err)
	}
	defer buf.Close()

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.GetBytes()), nil
}

// Close releases the canvas buffer.
func (c *Canvas) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mat.Empty() {
		c.mat.Close()
	}
}
