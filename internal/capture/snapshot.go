package capture

import (
	"encoding/base64"
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// JPEGQuality is the lossy compression quality used for snapshots.
const JPEGQuality = 80

// dataURIPrefix makes the payload self-describing for the inference endpoint.
const dataURIPrefix = "data:image/jpeg;base64,"

var (
	errNoFrames = errors.New("no frames available")

	// ErrEmptyPayload is returned when JPEG encoding produces no bytes.
	ErrEmptyPayload = errors.New("encoded snapshot payload is empty")
)

// Snapshot reads one frame from the camera and returns it as a JPEG data URI.
// It never retries; the caller decides what to do with a failed capture.
func Snapshot(cam Camera) (string, error) {
	if cam == nil || !cam.IsOpen() {
		return "", ErrCameraNotOpen
	}

	frame, err := cam.ReadFrame()
	if err != nil {
		return "", fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	if frame.Empty() {
		return "", errors.New("captured frame is empty")
	}

	buf, err := gocv.IMEncodeWithParams(".jpg", *frame, []int{gocv.IMWriteJpegQuality, JPEGQuality})
	if err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}
