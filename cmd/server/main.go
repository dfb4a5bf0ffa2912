// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/ringplay/internal/api/connect"
	"github.com/osa030/ringplay/internal/api/rest"
	"github.com/osa030/ringplay/internal/app/filter"
	"github.com/osa030/ringplay/internal/app/library"
	"github.com/osa030/ringplay/internal/domain/playlist"
	"github.com/osa030/ringplay/internal/infra/config"
	"github.com/osa030/ringplay/internal/infra/logger"
)

var (
	app        = kingpin.New("ringplay-server", "ringplay playlist server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	demo       = app.Flag("demo", "Load the demo playlists at startup").Bool()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available filters and exit")
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// Bootstrap logger until the config is loaded
	if err := logger.Init(loggerConfig(config.LogConfig{Level: "info", Output: "stdout"})); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := logger.Init(loggerConfig(cfg.Log)); err != nil {
		zlog.Fatal().Msgf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// loggerConfig applies the command-line flags on top of the configured log settings.
func loggerConfig(lc config.LogConfig) logger.Config {
	out := logger.Config{
		Output:     lc.Output,
		Level:      lc.Level,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
	}
	if out.Output != "stdout" && out.Output != "stderr" {
		out.File = out.Output
	}
	if *verbose {
		out.Level = "debug"
	}
	if *logfile != "" {
		out.Output = *logfile
		out.File = *logfile
	}
	return out
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig(path string) (*config.Config, error) {
	zlog.Info().Msgf("Loading config from %s", path)
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		zlog.Warn().Msgf("Config file %s not found, using defaults", path)
		return config.Default(), nil
	}
	return cfg, err
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	chain, err := filter.NewChainFromSettings(enabledFilters(cfg))
	if err != nil {
		return errors.Wrap(err, "invalid filter config")
	}

	lib := library.NewService(library.Options{
		Filters: chain,
		Upload: library.UploadDefaults{
			Artist:   cfg.Upload.DefaultArtist,
			Genre:    cfg.Upload.DefaultGenre,
			Duration: cfg.Upload.DefaultDuration,
		},
		DefaultSortKey: playlist.ParseSortKey(cfg.Library.DefaultSortKey),
	})

	if err := seedLibrary(ctx, cfg, lib); err != nil {
		return errors.Wrap(err, "failed to seed library")
	}

	// Create RPC service
	playlistService := apiconnect.NewPlaylistService(lib, cfg)
	connectPath, connectHandler := playlistService.Handler(
		connect.WithInterceptors(apiconnect.NewLoggingInterceptor()),
	)

	router := rest.New(lib, cfg).Router()
	router.Handle(connectPath+"*", connectHandler)

	serverAddr := cfg.Server.Addr
	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", serverAddr)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// End watch streams first so Shutdown does not wait on them
	playlistService.Close()
	lib.Notifications().Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// enabledFilters returns the settings of every enabled filter.
func enabledFilters(cfg *config.Config) map[string]map[string]any {
	enabled := make(map[string]map[string]any)
	for name := range cfg.Filters {
		if cfg.IsFilterEnabled(name) {
			enabled[name] = cfg.GetFilterSettings(name)
		}
	}
	return enabled
}

// seedLibrary loads the demo playlists and the configured CSV files.
func seedLibrary(ctx context.Context, cfg *config.Config, lib *library.Service) error {
	if cfg.Library.Demo || *demo {
		zlog.Info().Msg("Loading demo playlists")
		if err := lib.Seed(ctx, library.DemoPlaylists()); err != nil {
			return err
		}
	}

	for _, seed := range cfg.Library.Seeds {
		if err := lib.SeedFile(ctx, seed.Playlist, seed.Path); err != nil {
			return err
		}
	}

	zlog.Info().Msgf("Library ready: playlists=%d", len(lib.Playlists()))
	return nil
}

// printFilters prints available filters.
func printFilters() {
	registry := filter.GetRegistered()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available Filters:")
	for _, name := range names {
		f := registry[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
