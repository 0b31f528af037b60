// Package app wires the camera, detector, history and announcer into the
// finger detection application.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ashim170/FingerDETECTAi/internal/announce"
	"github.com/Ashim170/FingerDETECTAi/internal/capture"
	"github.com/Ashim170/FingerDETECTAi/internal/detector"
	"github.com/Ashim170/FingerDETECTAi/internal/history"
	"github.com/Ashim170/FingerDETECTAi/internal/scan"
)

// Config holds configuration options for the application.
type Config struct {
	History          *history.Store
	CameraID         int
	DetectEndpoint   string
	DetectTimeout    time.Duration
	CountdownSeconds int
	SpeechCommand    string
}

// App owns the scan pipeline: camera in, detection out, history and speech
// on the side.
type App struct {
	config    Config
	camera    capture.Camera
	detector  detector.Detector
	announcer *announce.Announcer
	sequencer *scan.Sequencer

	mu      sync.RWMutex
	enabled bool
	started bool
}

// New creates a new App instance with the given configuration.
// The detection endpoint is required; speech is optional and degrades to a
// logged notice when no TTS backend exists.
func New(config Config) (*App, error) {
	if config.History == nil {
		return nil, fmt.Errorf("history store is required")
	}

	det, err := detector.NewRemote(detector.Config{
		Endpoint: config.DetectEndpoint,
		Timeout:  config.DetectTimeout,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		detector: det,
		enabled:  true,
	}

	if synth, err := announce.NewCommandSynthesizer(config.SpeechCommand); err == nil {
		a.announcer = announce.New(synth)
		log.Printf("Announcing through %s", synth.Binary())
	} else {
		a.announcer = announce.New(nil)
		log.Printf("Speech disabled: %v", err)
	}

	return a, nil
}

// SetCamera replaces the camera. Only valid before Start; tests use it to
// inject a mock.
func (a *App) SetCamera(cam capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = cam
}

// SetDetector replaces the detector. Only valid before Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetAnnouncer replaces the announcer. Only valid before Start.
func (a *App) SetAnnouncer(an *announce.Announcer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.announcer = an
}

// SetEnabled enables or disables scan triggering.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether scan triggering is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Start opens the camera and builds the sequencer.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.sequencer = scan.New(scan.Config{
		Camera:           a.camera,
		Detector:         a.detector,
		History:          a.config.History,
		Announcer:        a.announcer,
		CountdownSeconds: a.config.CountdownSeconds,
	})
	a.started = true

	log.Println("Scan pipeline started")
	return nil
}

// Stop cancels any in-flight scan and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sequencer != nil {
		a.sequencer.Close()
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.started = false
	log.Println("Scan pipeline stopped")
}

// Trigger starts a scan. Returns false when disabled, not started, or a scan
// is already in flight.
func (a *App) Trigger() bool {
	a.mu.RLock()
	seq := a.sequencer
	enabled := a.enabled
	a.mu.RUnlock()

	if !enabled || seq == nil {
		return false
	}
	return seq.Trigger()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Sequencer returns the scan sequencer, or nil before Start.
func (a *App) Sequencer() *scan.Sequencer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sequencer
}

// History returns the history store.
func (a *App) History() *history.Store {
	return a.config.History
}

// Announcer returns the announcer.
func (a *App) Announcer() *announce.Announcer {
	return a.announcer
}
