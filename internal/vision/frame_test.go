package vision

import (
	"encoding/base64"
	"strings"
	"testing"

	"gocv.io/x/gocv"
)

func encodeTestFrame(t *testing.T, rows, cols int) string {
	t.Helper()

	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(".png", mat)
	if err != nil {
		t.Fatalf("encode test frame: %v", err)
	}
	defer buf.Close()

	return base64.StdEncoding.EncodeToString(buf.GetBytes())
}

func TestDecodeFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	encoded := encodeTestFrame(t, 120, 160)

	tests := []struct {
		name string
		data string
	}{
		{"plain base64", encoded},
		{"data url prefix", "data:image/png;base64," + encoded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mat, err := DecodeFrame(tt.data)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}
			defer mat.Close()

			if mat.Rows() != 120 || mat.Cols() != 160 {
				t.Errorf("decoded size = %dx%d, want 160x120", mat.Cols(), mat.Rows())
			}
		})
	}
}

func TestDecodeFrame_Invalid(t *testing.T) {
	if _, err := DecodeFrame("not-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}

	garbage := base64.StdEncoding.EncodeToString([]byte("not an image"))
	if _, err := DecodeFrame(garbage); err == nil {
		t.Error("expected error for non-image payload")
	}
}

func TestEncodePNG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mat := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8UC3)
	defer mat.Close()

	out, err := EncodePNG(&mat)
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}

	if !strings.HasPrefix(out, "data:image/png;base64,") {
		t.Errorf("missing data URL prefix: %s", out[:30])
	}

	// Round trip through DecodeFrame
	decoded, err := DecodeFrame(out)
	if err != nil {
		t.Fatalf("round trip decode error = %v", err)
	}
	defer decoded.Close()

	if decoded.Rows() != 50 || decoded.Cols() != 50 {
		t.Errorf("round trip size = %dx%d, want 50x50", decoded.Cols(), decoded.Rows())
	}
}

func TestPrepare(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mat := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer mat.Close()

	Prepare(&mat, 950, 550)

	if mat.Cols() != 950 || mat.Rows() != 550 {
		t.Errorf("prepared size = %dx%d, want 950x550", mat.Cols(), mat.Rows())
	}
}
