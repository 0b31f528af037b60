// Package detector provides finger-count inference over a remote vision model.
package detector

import (
	"context"
	"time"
)

// Detector defines the interface for finger-count inference implementations.
type Detector interface {
	// Count analyzes an encoded image and returns the number of raised fingers.
	// imageDataURI is a self-describing payload ("data:image/jpeg;base64,...").
	Count(ctx context.Context, imageDataURI string) (int, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for the remote detector.
type Config struct {
	// Endpoint is the URL of the inference service. Required.
	Endpoint string

	// Timeout bounds each detection call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds a single detection call. The remote model is slow but
// a hung call must not pin a scan forever.
const DefaultTimeout = 15 * time.Second

// DefaultConfig returns a Config with sensible default values.
// The endpoint still has to be filled in.
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
	}
}
