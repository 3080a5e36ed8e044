package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/1broseidon/splitscreen/internal/config"
	"github.com/1broseidon/splitscreen/internal/daemon"
	"github.com/1broseidon/splitscreen/internal/hotkeys"
	"github.com/1broseidon/splitscreen/internal/ipc"
	"github.com/1broseidon/splitscreen/internal/runtimepath"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "daemon [--path PATH] [--window ID]", "Track a window's content rects and serve them over IPC.")
	path := fs.String("path", "", "Config file path (default: ~/.config/splitscreen/config.yaml)")
	window := fs.String("window", "", "Override the tracked window (active, decimal or 0x hex id)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	configPath, err := configPathOrDefault(*path)
	if err != nil {
		log.Printf("Failed to resolve config path: %v", err)
		return 1
	}
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	if *window != "" {
		cfg.Window = *window
		if err := cfg.Validate(); err != nil {
			log.Printf("Invalid --window: %v", err)
			return 2
		}
	}
	log.Printf("Configuration loaded (window: %s, min_rect_size: %d, split_tolerance: %d)",
		cfg.Window, cfg.MinRectSize, cfg.SplitTolerance)

	logger, logCloser, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Printf("Failed to set up logging: %v", err)
		return 1
	}
	defer logCloser.Close()

	lockPath, err := runtimepath.LockPath()
	if err != nil {
		log.Printf("Failed to resolve lock path: %v", err)
		return 1
	}
	instanceLock, err := lockInstance(lockPath)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer instanceLock.Unlock()

	backend, err := connectBackend(cfg)
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer backend.Disconnect()

	tracker, err := daemon.NewTracker(daemon.TrackerConfigFrom(cfg, logger), backend)
	if err != nil {
		log.Printf("Failed to create tracker: %v", err)
		return 1
	}
	if err := backend.WatchTopology(tracker.Notify); err != nil {
		log.Printf("Warning: topology events unavailable, relying on polling: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.Run(ctx)

	hotkeyHandler := hotkeys.NewHandler(backend, tracker, cfg.Hotkeys.MaxScreens, cfg.Emulate.SplitKind(), logger)
	if n, err := hotkeyHandler.Register(cfg.Hotkeys); err != nil {
		log.Printf("Warning: Failed to register hotkeys: %v", err)
	} else if n > 0 {
		log.Printf("Registered %d hotkey(s)", n)
	}

	ipcServer, err := ipc.NewServer(tracker, ipc.ServerConfig{
		ConfigPath:     configPath,
		WindowOverride: *window,
		Version:        version,
		Logger:         logger,
	})
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	pidPath, err := writePIDFile()
	if err != nil {
		log.Printf("Warning: failed to write pid file: %v", err)
	}

	if cfg.WatchConfig {
		watchFiles := res.Files
		if len(watchFiles) == 0 {
			watchFiles = []string{configPath}
		}
		go func() {
			err := config.Watch(ctx, watchFiles, config.DefaultWatchDebounce, logger, func() {
				log.Println("Config file changed, reloading...")
				reloadConfig(ctx, tracker, configPath, *window, logger)
			})
			if err != nil {
				log.Printf("Warning: config watching disabled: %v", err)
			}
		}()
	}

	log.Printf("splitscreen daemon started (socket: %s)", ipcServer.SocketPath())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				reloadConfig(ctx, tracker, configPath, *window, logger)

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down splitscreen daemon...")
				cancel()
				ipcServer.Stop()
				if pidPath != "" {
					_ = os.Remove(pidPath)
				}
				_ = instanceLock.Unlock()
				logCloser.Close()
				// The X connection cannot be closed while the event loop
				// is blocked reading from it.
				os.Exit(0)
			}
		}
	}()

	log.Println("Entering event loop...")
	backend.EventLoop()
	return 0
}

func reloadConfig(ctx context.Context, tracker *daemon.Tracker, path, windowOverride string, logger *slog.Logger) {
	res, err := config.LoadFromPath(path)
	if err != nil {
		log.Printf("Config reload failed: %v", err)
		return
	}
	if windowOverride != "" {
		res.Config.Window = windowOverride
	}
	st, err := tracker.ApplyConfig(ctx, daemon.TrackerConfigFrom(res.Config, logger))
	if err != nil {
		log.Printf("Config reload failed: %v", err)
		return
	}
	log.Printf("Config reloaded successfully (split: %s, rects: %d); hotkey changes apply on restart", st.Split, len(st.ContentRects))
}

// lockInstance takes the single-instance lock. It fails if another daemon
// holds it.
func lockInstance(path string) (*flock.Flock, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another splitscreen daemon is already running")
	}
	return fl, nil
}

// writePIDFile records the daemon pid next to the socket and returns its path.
func writePIDFile() (string, error) {
	path, err := runtimepath.PIDPath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
		return "", err
	}
	return path, nil
}

// readPIDFile returns the pid recorded by a running daemon.
func readPIDFile(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, errors.New("pid file is empty")
	}
	pid, err := strconv.Atoi(text)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q", text)
	}
	return pid, nil
}

func daemonPID() (int, error) {
	path, err := runtimepath.PIDPath()
	if err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return readPIDFile(f)
}
