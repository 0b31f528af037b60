package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/Ashim170/FingerDETECTAi/internal/app"
	"github.com/Ashim170/FingerDETECTAi/internal/config"
	"github.com/Ashim170/FingerDETECTAi/internal/history"
	"github.com/Ashim170/FingerDETECTAi/internal/scan"
	"github.com/Ashim170/FingerDETECTAi/internal/server"
	"github.com/Ashim170/FingerDETECTAi/internal/tray"
)

func main() {
	fmt.Println("FingerDETECTAi - Finger Count Detection")

	var (
		configPath = flag.String("config", config.DefaultPath(), "path to config file")
		addr       = flag.String("addr", "", "listen address (overrides config)")
		cameraID   = flag.Int("camera", -1, "camera device id (overrides config)")
		endpoint   = flag.String("endpoint", "", "detection endpoint URL (overrides config)")
		countdown  = flag.Int("countdown", 0, "countdown seconds before capture (overrides config)")
		timeout    = flag.Int("timeout", 0, "detection timeout in seconds (overrides config)")
		speechCmd  = flag.String("speech-cmd", "", "TTS command (overrides config)")
		staticDir  = flag.String("static", "", "web UI directory (overrides config)")
		headless   = flag.Bool("headless", false, "run without the system tray")
	)
	flag.Parse()

	cfg := config.Default()
	fileCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	fileCfg.Apply(&cfg)

	// Explicit flags win over the config file.
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *cameraID >= 0 {
		cfg.CameraID = *cameraID
	}
	if *endpoint != "" {
		cfg.DetectEndpoint = *endpoint
	}
	if *countdown > 0 {
		cfg.CountdownSeconds = *countdown
	}
	if *timeout > 0 {
		cfg.DetectTimeout = time.Duration(*timeout) * time.Second
	}
	if *speechCmd != "" {
		cfg.SpeechCommand = *speechCmd
	}
	if *staticDir != "" {
		cfg.StaticDir = *staticDir
	}

	if cfg.DetectEndpoint == "" {
		log.Fatal("Detection endpoint is required (set detect.endpoint in the config file or pass -endpoint)")
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = findWebDir()
	}

	// History is session-lifetime: in-memory, gone on exit.
	st, err := history.New("")
	if err != nil {
		log.Fatalf("Failed to initialize history store: %v", err)
	}
	defer st.Close()

	application, err := app.New(app.Config{
		History:          st,
		CameraID:         cfg.CameraID,
		DetectEndpoint:   cfg.DetectEndpoint,
		DetectTimeout:    cfg.DetectTimeout,
		CountdownSeconds: cfg.CountdownSeconds,
		SpeechCommand:    cfg.SpeechCommand,
	})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start scan pipeline: %v", err)
	}
	defer application.Stop()

	srv := server.New(server.Config{
		StaticDir: cfg.StaticDir,
		History:   st,
		App:       application,
	})

	go func() {
		log.Printf("Starting server on %s", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *headless {
		runHeadless()
		return
	}
	runTray(application, cfg.Addr)
}

// runHeadless blocks until an interrupt or termination signal arrives.
func runHeadless() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
}

// runTray drives the system tray and blocks until quit.
func runTray(application *app.App, addr string) {
	t := tray.New()

	t.OnToggle(application.SetEnabled)
	t.OnScan(func() {
		if !application.Trigger() {
			log.Println("Scan ignored: disabled or already in progress")
		}
	})
	t.OnOpen(func() {
		if err := openBrowser(dashboardURL(addr)); err != nil {
			log.Printf("Failed to open dashboard: %v", err)
		}
	})
	t.OnQuit(func() {
		log.Println("Shutting down")
	})

	// Mirror scan results into the tray menu.
	if seq := application.Sequencer(); seq != nil {
		events, cancel := seq.Subscribe()
		defer cancel()
		go func() {
			for ev := range events {
				if ev.Type == scan.EventResult {
					t.SetLastCount(ev.Count)
				}
			}
		}()
	}

	t.Run()
}

// dashboardURL turns a listen address into something a browser accepts.
func dashboardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens url with the platform launcher.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and the user config directory.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	candidate := filepath.Join(filepath.Dir(config.DefaultPath()), "web")
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}

	return ""
}
