package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/edulabs/airsketch/internal/detector"
	"github.com/edulabs/airsketch/internal/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *detector.MockDetector) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mock := detector.NewMockDetector()
	m := session.NewManager(session.Config{
		Detector:     mock,
		CanvasWidth:  320,
		CanvasHeight: 240,
	})
	t.Cleanup(m.Close)

	srv := New(Config{Manager: m})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return ts, mock
}

func encodeFrame(t *testing.T, width, height int) string {
	t.Helper()

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		t.Fatalf("failed to encode frame: %v", err)
	}
	defer buf.Close()

	return base64.StdEncoding.EncodeToString(buf.GetBytes())
}

func TestAPI_StreamWorkflow(t *testing.T) {
	ts, mock := newTestServer(t)
	client := ts.Client()

	// 1. Create a session
	resp, err := client.Post(ts.URL+"/api/draw/sessions", "application/json", bytes.NewBuffer(nil))
	if err != nil {
		t.Fatalf("POST /api/draw/sessions error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created session.Status
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// 2. Connect the stream
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/draw/sessions/" + created.ID + "/stream"
	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	if wsResp != nil {
		wsResp.Body.Close()
	}
	defer conn.Close()

	// 3. Send frames until the gesture locks
	mock.SetHands([]detector.Hand{detector.DrawingHand()})
	frame := encodeFrame(t, 320, 240)

	var last streamResponse
	for i := 0; i < 3; i++ {
		if err := conn.WriteJSON(streamRequest{Frame: frame}); err != nil {
			t.Fatalf("stream write error = %v", err)
		}
		last = streamResponse{}
		if err := conn.ReadJSON(&last); err != nil {
			t.Fatalf("stream read error = %v", err)
		}
		if last.Error != "" {
			t.Fatalf("stream frame %d returned error: %s", i, last.Error)
		}
	}

	if last.Gesture != "Drawing" {
		t.Errorf("gesture = %q, want Drawing", last.Gesture)
	}
	if !last.HandDetected {
		t.Error("expected hand_detected to be true")
	}
	if !strings.HasPrefix(last.Frame, "data:image/png;base64,") {
		t.Error("expected composited frame as a data URL")
	}

	// 4. Delete the session
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/draw/sessions/"+created.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
}

func TestAPI_StreamUnknownSession(t *testing.T) {
	ts, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/draw/sessions/missing/stream"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Error("expected 404 response on the failed upgrade")
	}
	if resp != nil {
		resp.Body.Close()
	}
}
