//go:build ebiten

// Command lenia-ebiten runs the simulation in an ebiten window. It shares the
// session with the raylib front end and differs only in windowing and input.
//
// Usage: go run -tags ebiten ./cmd/lenia-ebiten
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/kernels"
	"github.com/pthm-cable/lenia/patterns"
	"github.com/pthm-cable/lenia/renderer"
	"github.com/pthm-cable/lenia/session"
	"github.com/pthm-cable/lenia/settings"
)

var patternKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type game struct {
	sess *session.Session

	frame *ebiten.Image
	img   *image.RGBA

	width, height int
	showHUD       bool
	err           error
}

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	g.handleKeys()
	g.handlePointer()
	if err := g.sess.Frame(); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	return nil
}

func (g *game) handleKeys() {
	s := g.sess
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		if err := s.StepOnce(); err != nil {
			g.err = err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.Reseed(s.Params().CurrentPattern)
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		s.ChangeKernel(string(kernels.Next(s.Kernel())))
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.set(settings.KeyColorScheme, renderer.NextScheme(s.Params().ColorScheme))
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.set(settings.KeyEnableBloom, !s.Params().EnableBloom)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.set(settings.KeyEnableDither, !s.Params().EnableDither)
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.showHUD = !g.showHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		s.ResetView()
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		s.ResetToDefaults()
	}
	ids := patterns.IDs()
	for i, k := range patternKeys {
		if i < len(ids) && inpututil.IsKeyJustPressed(k) {
			s.Reseed(string(ids[i]))
		}
	}
}

func (g *game) set(key string, v any) {
	if err := g.sess.SetParam(key, v); err != nil {
		slog.Warn("parameter rejected", "key", key, "error", err)
	}
}

func (g *game) handlePointer() {
	s := g.sess
	mx, my := ebiten.CursorPosition()
	px, py := float64(mx), float64(my)

	if _, dy := ebiten.Wheel(); dy != 0 {
		s.Wheel(px, py, dy, g.width, g.height)
	}

	pan := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) || ebiten.IsKeyPressed(ebiten.KeyAlt)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		s.PointerDown(px, py, pan, g.width, g.height)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		s.PointerDown(px, py, true, g.width, g.height)
	case s.Drawing() || s.Panning():
		s.PointerMove(px, py, g.width, g.height)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		s.PointerUp()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	rw, rh := g.sess.RenderSize(g.width, g.height)
	if g.img == nil || g.img.Rect.Dx() != rw || g.img.Rect.Dy() != rh {
		g.img = image.NewRGBA(image.Rect(0, 0, rw, rh))
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(rw, rh)
	}
	g.sess.Render(g.img)
	g.frame.WritePixels(g.img.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.width)/float64(rw), float64(g.height)/float64(rh))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frame, op)

	if g.showHUD {
		ebitenutil.DebugPrint(screen, g.status())
	}
	g.sess.RecordPresent()
}

func (g *game) status() string {
	return strings.Join(g.sess.Status(int32(ebiten.ActualFPS())).Lines(), "\n")
}

// Layout follows the window size so the grid keeps the window's aspect.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		if err := g.sess.Resize(outsideWidth, outsideHeight); err == nil {
			g.width, g.height = outsideWidth, outsideHeight
		}
	}
	return max(g.width, 1), max(g.height, 1)
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	settingsPath := flag.String("settings", "", "Path to the persisted parameter file (overrides config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if cfg.Engine.Seed == 0 {
		cfg.Engine.Seed = time.Now().UnixNano()
	}
	if *settingsPath != "" {
		cfg.Settings.Path = *settingsPath
	}

	var store *settings.Store
	if cfg.Settings.Path != "" {
		store = settings.Open(settings.FileBackend{Path: cfg.Settings.Path})
	} else {
		store = settings.Open(nil)
	}
	defer store.Close()

	sess, err := session.New(cfg, store, session.Options{})
	if err != nil {
		slog.Error("failed to start session", "error", err)
		return 1
	}
	defer sess.Close()

	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Screen.TargetFPS)

	g := &game{sess: sess, showHUD: true}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("game exited", "error", err)
		return 1
	}
	return 0
}
