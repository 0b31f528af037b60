package announce

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// CommandSynthesizer speaks through a local text-to-speech binary
// (say on macOS, espeak/espeak-ng elsewhere). Cancellation kills the
// subprocess, which cuts the utterance off immediately.
type CommandSynthesizer struct {
	binary string
}

// NewCommandSynthesizer locates a usable TTS binary. An explicit override
// wins; otherwise the platform candidates are probed on PATH. Returns
// ErrUnavailable (wrapped) when nothing is found.
func NewCommandSynthesizer(override string) (*CommandSynthesizer, error) {
	if override != "" {
		path, err := exec.LookPath(override)
		if err != nil {
			return nil, fmt.Errorf("%w: %q not found on PATH", ErrUnavailable, override)
		}
		return &CommandSynthesizer{binary: path}, nil
	}

	for _, candidate := range ttsCandidates() {
		if path, err := exec.LookPath(candidate); err == nil {
			return &CommandSynthesizer{binary: path}, nil
		}
	}

	return nil, fmt.Errorf("%w: no TTS binary on PATH (tried %v)", ErrUnavailable, ttsCandidates())
}

// Binary returns the resolved TTS binary path.
func (c *CommandSynthesizer) Binary() string {
	return c.binary
}

// Speak runs the TTS binary and blocks until the utterance finishes.
func (c *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.binary, text)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("speech command failed: %w", err)
	}
	return nil
}

func ttsCandidates() []string {
	if runtime.GOOS == "darwin" {
		return []string{"say"}
	}
	return []string{"espeak-ng", "espeak", "say"}
}
