package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/xveearr/internal/binding"
	"github.com/1broseidon/xveearr/internal/config"
	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/desktop"
	"github.com/1broseidon/xveearr/internal/ipc"
	"github.com/1broseidon/xveearr/internal/logging"
	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/preview"
	"github.com/1broseidon/xveearr/internal/texture"
)

func windowSystems() *platform.Registry {
	r := platform.NewRegistry()
	r.Register("x11", platform.NewX11Backend)
	r.Register("memory", platform.NewMemoryBackend)
	return r
}

func runCompositor(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/xveearr/config.yaml)")
	display := fs.String("display", "", "X display (overrides config)")
	windowSystem := fs.String("window-system", "", "Window system backend: x11 or memory (overrides config)")
	renderer := fs.String("renderer", "", "Renderer: ebiten or headless (overrides config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xveearr run [--config PATH] [--display DISPLAY] [--window-system NAME] [--renderer NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Composite every top-level window into textures and draw them.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	configPath := *path
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}
	if *windowSystem != "" {
		cfg.WindowSystem = *windowSystem
	}
	if *renderer != "" {
		cfg.Renderer = *renderer
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("configuration loaded",
		"file", res.File,
		"window_system", cfg.WindowSystem,
		"renderer", cfg.Renderer,
		"log_level", cfg.LogLevel)

	if err := runPipeline(cfg, configPath, logger); err != nil {
		logger.Error("xveearr stopped", "err", err)
		return 1
	}
	return 0
}

// runPipeline owns every long-lived component. The renderer runs on the
// calling goroutine, which is the main thread ebiten needs.
func runPipeline(cfg *config.Config, configPath string, logger *logging.Logger) error {
	backend, err := windowSystems().Open(cfg.WindowSystem, platform.Options{
		Display:              cfg.Display,
		RequireWindowManager: cfg.RequireWindowManager,
		Logger:               logger.Logger,
	})
	if err != nil {
		return err
	}

	var textures texture.Backend
	var ebitenTextures *texture.Ebiten
	switch cfg.Renderer {
	case "ebiten":
		ebitenTextures = texture.NewEbiten()
		textures = ebitenTextures
	default:
		textures = texture.NewMemory()
	}

	queue := binding.NewQueue()
	env, err := desktop.New(desktop.Options{
		Backend:              backend,
		Textures:             textures,
		Queue:                queue,
		RequireWindowManager: cfg.RequireWindowManager,
		Logger:               logger.Logger,
	})
	if err != nil {
		backend.Close()
		return err
	}
	logger.Info("desktop environment ready", "host_pid", env.HostPID(), "own_pid", env.OwnPID())

	binder := binding.NewBinder(binding.BinderConfig{
		Queue:        queue,
		Surfaces:     backend,
		Device:       textures,
		RefreshEvery: cfg.RefreshEvery,
		Logger:       logger.Logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scene := daemon.NewScene()
	pump := daemon.NewPump(daemon.PumpConfig{
		Interval: time.Duration(cfg.PollInterval) * time.Millisecond,
		Logger:   logger.Logger,
	}, env, scene)

	// The environment is closed on the pump goroutine once the renderer has
	// released every surface.
	rendered := make(chan struct{})
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		pump.Run(ctx)
		<-rendered
		env.Close()
	}()

	reloads := make(chan *config.Config, 1)
	var ipcServer *ipc.Server
	if cfg.IPC.Enabled {
		sc := ipc.ServerConfig{
			Scene:        scene,
			Config:       cfg,
			Load:         func() (*config.Config, error) { return reloadConfig(configPath) },
			Reload:       reloads,
			WindowSystem: cfg.WindowSystem,
			Renderer:     cfg.Renderer,
			HostPID:      env.HostPID(),
			OwnPID:       env.OwnPID(),
			Logger:       logger.Logger,
		}
		sc.Pipeline = func() ipc.PipelineStats {
			return ipc.PipelineStats{
				QueueDepth:    queue.Len(),
				Binder:        binder.Stats(),
				CachedCursors: env.CachedCursors(),
			}
		}
		if lister, ok := backend.(platform.DisplayLister); ok {
			sc.Displays = lister
		}
		ipcServer, err = ipc.NewServer(sc)
		if err == nil {
			err = ipcServer.Start()
		}
		if err != nil {
			logger.Warn("IPC disabled", "err", err)
			ipcServer = nil
		} else {
			defer ipcServer.Stop()
		}
	}

	go watchConfig(ctx, configPath, reloads, logger)
	go applyReloads(ctx, reloads, ipcServer, logger)

	var renderErr error
	switch cfg.Renderer {
	case "ebiten":
		game := preview.NewGame(cfg.Preview, scene, binder, ebitenTextures, logger.Logger)
		renderErr = game.Run(ctx)
	default:
		loop := daemon.NewHeadlessRenderer(binder, time.Duration(cfg.RenderInterval)*time.Millisecond, logger.Logger)
		loop.Run(ctx)
	}

	logger.Info("shutting down xveearr")
	cancel()
	close(rendered)
	<-pumped
	return renderErr
}

func reloadConfig(path string) (*config.Config, error) {
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// watchConfig forwards file changes and SIGHUP to reloads.
func watchConfig(ctx context.Context, path string, reloads chan<- *config.Config, logger *logging.Logger) {
	send := func(cfg *config.Config) {
		select {
		case reloads <- cfg:
		default:
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				cfg, err := reloadConfig(path)
				if err != nil {
					logger.Warn("config reload failed", "err", err)
					continue
				}
				send(cfg)
			}
		}
	}()

	w, err := config.NewWatcher(path, config.DefaultWatchDebounce)
	if err != nil {
		logger.Warn("config watcher disabled", "err", err)
		<-ctx.Done()
		return
	}
	err = w.Run(ctx, func(cfg *config.Config, err error) {
		if err != nil {
			logger.Warn("config reload failed", "err", err)
			return
		}
		send(cfg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("config watcher stopped", "err", err)
	}
}

// applyReloads applies the settings that can change at runtime.
func applyReloads(ctx context.Context, reloads <-chan *config.Config, server *ipc.Server, logger *logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-reloads:
			if err := logger.SetLevel(cfg.LogLevel); err != nil {
				logger.Warn("ignoring reloaded log level", "err", err)
				continue
			}
			if server != nil {
				server.UpdateConfig(cfg)
			}
			logger.Info("config reloaded", "log_level", cfg.LogLevel)
		}
	}
}
