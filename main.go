package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guptarohit/asciigraph"

	"github.com/pthm-cable/lenia/config"
	"github.com/pthm-cable/lenia/engine"
	"github.com/pthm-cable/lenia/game"
	"github.com/pthm-cable/lenia/kernels"
	"github.com/pthm-cable/lenia/patterns"
	"github.com/pthm-cable/lenia/session"
	"github.com/pthm-cable/lenia/settings"
	"github.com/pthm-cable/lenia/telemetry"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred closes flush the settings store
// and output files on every path.
func run() int {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	settingsPath := flag.String("settings", "", "Path to the persisted parameter file (overrides config)")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N steps (0 = unlimited)")
	seed := flag.Int64("seed", 0, "Pattern RNG seed (0 = config, then time-based)")
	pattern := flag.String("pattern", "", "Seed pattern at startup ("+patternList()+")")
	kernel := flag.String("kernel", "", "Kernel at startup ("+kernelList()+")")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, snapshots and config")
	logStats := flag.Bool("log-stats", false, "Log telemetry windows via slog")
	backend := flag.String("backend", "", "Compute backend: cpu or opencl (empty = config)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if *backend != "" {
		cfg.Engine.Backend = *backend
	}
	if *seed != 0 {
		cfg.Engine.Seed = *seed
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

	// Startup overrides go through the store so they persist like any edit.
	if *kernel != "" {
		if err := store.Set(settings.KeyKernelType, *kernel); err != nil {
			slog.Warn("ignoring -kernel", "error", err)
		}
	}
	if *pattern != "" {
		if err := store.Set(settings.KeyCurrentPattern, *pattern); err != nil {
			slog.Warn("ignoring -pattern", "error", err)
		}
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		return 1
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	sess, err := session.New(cfg, store, session.Options{
		Output:   om,
		LogStats: *logStats,
	})
	if err != nil {
		if errors.Is(err, engine.ErrBackendUnavailable) {
			slog.Error("compute backend unavailable", "backend", cfg.Engine.Backend, "error", err)
		} else {
			slog.Error("failed to start session", "error", err)
		}
		return 1
	}
	defer sess.Close()

	if *headless {
		runHeadless(sess, *maxTicks)
		return 0
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(sess)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && sess.Tick() >= *maxTicks {
			break
		}
	}
	return 0
}

// runHeadless steps until maxTicks or an interrupt, then charts mass per
// telemetry window.
func runHeadless(sess *session.Session, maxTicks int64) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, h := sess.Size()
	slog.Info("starting headless simulation",
		"width", w,
		"height", h,
		"kernel", string(sess.Kernel()),
		"pattern", string(sess.Pattern()),
		"max_ticks", maxTicks,
	)

	for ctx.Err() == nil {
		if err := sess.Frame(); err != nil {
			slog.Error("frame failed", "error", err)
			break
		}
		if maxTicks > 0 && sess.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", sess.Tick())
			break
		}
	}

	if hist := sess.MassHistory(); len(hist) > 1 {
		fmt.Fprintln(os.Stderr, asciigraph.Plot(hist,
			asciigraph.Height(12),
			asciigraph.Width(72),
			asciigraph.Caption(fmt.Sprintf("mass per window (%s, %s)", sess.Kernel(), sess.Pattern())),
		))
	}
	sess.PerfStats().LogStats()
}

func patternList() string {
	var s string
	for i, id := range patterns.IDs() {
		if i > 0 {
			s += ", "
		}
		s += string(id)
	}
	return s
}

func kernelList() string {
	var s string
	for i, def := range kernels.All() {
		if i > 0 {
			s += ", "
		}
		s += string(def.ID)
	}
	return s
}
