package globe

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures a window created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowFPS draws the FPS and TPS counters over the globe.
	ShowFPS bool
	// Config is the scene configuration. Nil uses DefaultConfig.
	Config *Config
	// Data is bound to the globe layers. Nil uses the embedded datasets.
	Data *Datasets
	// ScreenshotDir receives PNGs queued with Host.Screenshot.
	ScreenshotDir string
	// TestRunner, when set, drives injected input and screenshots.
	TestRunner *TestRunner
}

// Host runs a SceneHandle inside Ebitengine. It implements ebiten.Game and
// FrameScheduler: a requested frame callback runs during the next Draw.
type Host struct {
	handle *SceneHandle

	// ShowFPS draws the FPS and TPS counters over the frame.
	ShowFPS bool
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	pending         func()
	runner          *TestRunner
	screenshotQueue []string
	outsideW        int
	outsideH        int
	ratio           float64
	fps             fpsCounter
}

// NewHost wraps handle for Ebitengine.
func NewHost(handle *SceneHandle) *Host {
	return &Host{handle: handle, ScreenshotDir: "screenshots"}
}

// Handle returns the wrapped scene handle.
func (h *Host) Handle() *SceneHandle {
	return h.handle
}

// SetTestRunner attaches a TestRunner. Its step runs at the start of every
// Update, before input is polled.
func (h *Host) SetTestRunner(r *TestRunner) {
	h.runner = r
}

// RequestFrame schedules fn for the next Draw. Only one callback is held;
// the loop never requests more than one per iteration.
func (h *Host) RequestFrame(fn func()) {
	h.pending = fn
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if h.handle.Disposed() {
		return ebiten.Termination
	}
	if h.runner != nil {
		h.runner.step(h)
	}
	h.handle.Bridge.processInput()
	if h.handle.Loop != nil {
		if err := h.handle.Loop.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Draw implements ebiten.Game. The screen is not cleared between frames, so
// a stopped loop leaves its last frame on screen.
func (h *Host) Draw(screen *ebiten.Image) {
	fn := h.pending
	h.pending = nil
	if fn == nil {
		return
	}
	h.handle.Renderer.SetTarget(screen)
	fn()
	if h.ShowFPS {
		h.fps.draw(screen)
	}
	h.flushScreenshots(screen)
}

// Layout implements ebiten.Game. Window size changes are routed through
// the bridge so the camera and renderer follow them.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := 1.0
	if m := ebiten.Monitor(); m != nil {
		ratio = m.DeviceScaleFactor()
	}
	if outsideWidth != h.outsideW || outsideHeight != h.outsideH || ratio != h.ratio {
		h.outsideW, h.outsideH, h.ratio = outsideWidth, outsideHeight, ratio
		h.handle.HandleResize(float64(outsideWidth), float64(outsideHeight), ratio)
	}
	w, hh := h.handle.Renderer.OutputSize()
	if w <= 0 || hh <= 0 {
		return outsideWidth, outsideHeight
	}
	return w, hh
}

type windowSurface struct {
	w, h int
}

func (s windowSurface) Size() (int, int) { return s.w, s.h }

// DeviceScaleFactor is corrected by the first Layout call.
func (s windowSurface) DeviceScaleFactor() float64 { return 1 }

// Run opens a window, initializes the globe scene and runs it until the
// window is closed or a frame fails to render.
func Run(cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	sceneCfg := DefaultConfig()
	if cfg.Config != nil {
		sceneCfg = *cfg.Config
	}
	var data Datasets
	if cfg.Data != nil {
		data = *cfg.Data
	} else {
		d, err := DefaultDatasets()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		data = d
	}

	handle, err := Initialize(windowSurface{cfg.Width, cfg.Height}, data, sceneCfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer handle.Dispose()

	host := NewHost(handle)
	host.ShowFPS = cfg.ShowFPS || sceneCfg.ShowFPS
	if cfg.ScreenshotDir != "" {
		host.ScreenshotDir = cfg.ScreenshotDir
	}
	if cfg.TestRunner != nil {
		host.SetTestRunner(cfg.TestRunner)
	}
	handle.OnDegraded = func(err error) {
		debugLogf("rendering degraded: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handle.Start(ctx, host)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)

	err = ebiten.RunGame(host)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
