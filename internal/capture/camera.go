// Package capture provides camera acquisition and still-frame snapshots using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// Fixed capture resolution. The remote model does not benefit from anything larger.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// Sentinel errors for camera acquisition and reads.
var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrPermissionDenied is returned when the OS refuses access to the device.
	ErrPermissionDenied = errors.New("camera permission denied")

	// ErrDeviceNotFound is returned when the requested device does not exist.
	ErrDeviceNotFound = errors.New("camera device not found")
)

// Camera defines the interface for camera implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
}

// NewCamera creates a new Camera for the given device ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{deviceID: deviceID}
}

// Open opens the camera and pins the resolution to 640x480.
// Open errors are classified into ErrPermissionDenied, ErrDeviceNotFound or
// passed through as-is.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return classifyOpenError(c.deviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, FrameWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, FrameHeight)

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases the device.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen returns true if the camera is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// classifyOpenError maps an OpenCV open failure onto the camera error taxonomy.
// OpenCV only surfaces free-form text, so classification is by message content.
func classifyOpenError(deviceID int, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission"), strings.Contains(msg, "access denied"):
		return fmt.Errorf("%w: device %d: %v", ErrPermissionDenied, deviceID, err)
	case strings.Contains(msg, "not found"), strings.Contains(msg, "no such"),
		strings.Contains(msg, "out of range"), strings.Contains(msg, "can't open"),
		strings.Contains(msg, "cannot open"):
		return fmt.Errorf("%w: device %d: %v", ErrDeviceNotFound, deviceID, err)
	default:
		return fmt.Errorf("open camera %d: %w", deviceID, err)
	}
}
