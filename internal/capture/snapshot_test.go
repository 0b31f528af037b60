package capture

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"gocv.io/x/gocv"
)

// testFrame builds a solid-color frame at capture resolution.
func testFrame(t *testing.T) *gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(FrameHeight, FrameWidth, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func TestSnapshot_ProducesDataURI(t *testing.T) {
	cam := NewMockCamera([]*gocv.Mat{testFrame(t)}, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	uri, err := Snapshot(cam)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("Snapshot() = %.40q..., want %q prefix", uri, prefix)
	}

	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if len(payload) == 0 {
		t.Error("decoded payload is empty")
	}
	// JPEG SOI marker
	if len(payload) < 2 || payload[0] != 0xFF || payload[1] != 0xD8 {
		t.Error("payload does not start with a JPEG SOI marker")
	}
}

func TestSnapshot_CameraNotOpen(t *testing.T) {
	cam := NewMockCamera([]*gocv.Mat{testFrame(t)}, true)

	if _, err := Snapshot(cam); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("Snapshot() on closed camera: error = %v, want ErrCameraNotOpen", err)
	}
}

func TestSnapshot_NilCamera(t *testing.T) {
	if _, err := Snapshot(nil); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("Snapshot(nil): error = %v, want ErrCameraNotOpen", err)
	}
}

func TestSnapshot_ReadFailure(t *testing.T) {
	cam := NewMockCamera(nil, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	readErr := errors.New("sensor wedged")
	cam.SetReadError(readErr)

	if _, err := Snapshot(cam); !errors.Is(err, readErr) {
		t.Errorf("Snapshot() error = %v, want wrapped %v", err, readErr)
	}
}

func TestSnapshot_NoFrames(t *testing.T) {
	cam := NewMockCamera(nil, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	if _, err := Snapshot(cam); err == nil {
		t.Error("Snapshot() with no frames: expected error, got nil")
	}
}

func TestMockCamera_Playback(t *testing.T) {
	frame := testFrame(t)
	cam := NewMockCamera([]*gocv.Mat{frame}, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	got, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	got.Close()

	// Non-looping playback runs out after the last frame.
	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() after playback end: expected error, got nil")
	}

	cam.Reset()
	got, err = cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset() error = %v", err)
	}
	got.Close()
}
