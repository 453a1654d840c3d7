package vision

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when a decoded frame contains no image data.
var ErrEmptyFrame = errors.New("empty frame")

// DecodeFrame decodes a base64-encoded image, with or without a data-URL
// prefix, into a BGR matrix. The caller owns the returned Mat and must
// Close it.
func DecodeFrame(data string) (gocv.Mat, error) {
	if idx := strings.IndexByte(data, ','); idx >= 0 {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode base64 frame: %w", err)
	}

	mat, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode frame image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, ErrEmptyFrame
	}

	return mat, nil
}

// EncodePNG encodes a frame as a base64 PNG data URL suitable for returning
// straight to a browser client.
func EncodePNG(mat *gocv.Mat) (string, error) {
	buf, err := gocv.IMEncode(".png", *mat)
	if err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.GetBytes()), nil
}

// Prepare resizes a frame to the canvas dimensions and flips it
// horizontally for the mirror view the gesture classifier expects.
// The frame is modified in place.
func Prepare(mat *gocv.Mat, width, height int) {
	if mat.Cols() != width || mat.Rows() != height {
		gocv.Resize(*mat, mat, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLinear)
	}
	gocv.Flip(*mat, mat, 1)
}
