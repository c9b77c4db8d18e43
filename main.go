package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"fluidsim/config"
	"fluidsim/logging"
	"fluidsim/rendering/opengl"
	"fluidsim/simulation"
)

func init() {
	// GLFW event handling and all GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "fluid.json", "Settings file path")
		width      = flag.Int("width", 0, "Window width (overrides settings)")
		height     = flag.Int("height", 0, "Window height (overrides settings)")
		statsAddr  = flag.String("stats-addr", "", "Stats websocket listen address (overrides settings)")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides settings)")
		novsync    = flag.Bool("no-vsync", false, "Disable vsync")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		logging.New("info").Fatal("loading settings failed", zap.Error(err))
	}
	if *width > 0 {
		settings.Window.Width = *width
	}
	if *height > 0 {
		settings.Window.Height = *height
	}
	if *statsAddr != "" {
		settings.Stats.Addr = *statsAddr
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}
	if *novsync {
		settings.Window.VSync = false
	}

	log := logging.New(settings.LogLevel)
	defer log.Sync()

	ctx, err := opengl.NewContext(opengl.ContextConfig{
		Width:  settings.Window.Width,
		Height: settings.Window.Height,
		Title:  settings.Window.Title,
		VSync:  settings.Window.VSync,
	}, log)
	if err != nil {
		log.Fatal("no usable graphics context", zap.Error(err))
	}
	defer ctx.Cleanup()

	solver, err := simulation.NewSolver(ctx, settings.Simulation, log)
	if err != nil {
		log.Fatal("solver construction failed", zap.Error(err))
	}
	defer solver.Cleanup()

	wireInput(ctx, solver, log)

	if settings.Stats.Addr != "" {
		go serveStats(settings.Stats.Addr, solver, log)
	}

	// Seed the field so the window is not black until the first drag.
	solver.RandomSplats(8)

	last := time.Now()
	for !ctx.IsLost() {
		glfw.PollEvents()

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if err := solver.Execute(dt); err != nil {
			// A mid-sequence failure leaves the fields inconsistent;
			// there is no partial repair, only teardown.
			log.Error("tick failed", zap.Error(err))
			break
		}

		ctx.SwapBuffers()
	}
}
