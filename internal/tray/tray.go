// Package tray provides a system tray interface for the finger detection service.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onScan   func()
	onOpen   func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastCount *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback for toggling scan triggering on and off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnScan sets the callback for the "Scan now" menu item.
func (t *Tray) OnScan(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onScan = fn
}

// OnOpen sets the callback for the "Open dashboard" menu item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("FingerDetect")
	systray.SetTooltip("Finger count detection")

	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle scan triggering")
	systray.AddSeparator()

	menuScan := systray.AddMenuItem("Scan now", "Start a countdown and scan")
	t.menuLastCount = systray.AddMenuItem("Last: none", "Last detected finger count")
	t.menuLastCount.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit FingerDetect")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuScan.ClickedCh:
				t.handleScan()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleScan handles the scan menu item click.
func (t *Tray) handleScan() {
	t.mu.RLock()
	callback := t.onScan
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleOpen handles the dashboard menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastCount updates the last detected count display in the menu.
// A negative count resets the display.
func (t *Tray) SetLastCount(count int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastCount == nil {
		return
	}
	if count < 0 {
		t.menuLastCount.SetTitle("Last: none")
		return
	}
	if count == 1 {
		t.menuLastCount.SetTitle("Last: 1 finger")
		return
	}
	t.menuLastCount.SetTitle(fmt.Sprintf("Last: %d fingers", count))
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
