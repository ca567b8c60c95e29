// Command lobelabyrinth starts the LobeLabyrinth quiz-labyrinth server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags mirror the config file fields: host/port, content source, session
// store, and debug logging. Values layer as built-in defaults, then the
// YAML file, then LOBE_* environment variables, then flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/LobeLabyrinth-sub002/api"
	"github.com/opd-ai/LobeLabyrinth-sub002/config"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/session"
	"github.com/opd-ai/LobeLabyrinth-sub002/transport/mcp"
	"github.com/opd-ai/LobeLabyrinth-sub002/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "LobeLabyrinth Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	cmd := newRootCommand()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. "serve" is the default command, so a bare
// invocation starts the HTTP server exactly like "lobelabyrinth serve".
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:           "lobelabyrinth",
		Usage:          "knowledge-quiz labyrinth game server",
		Version:        Version,
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags:  commonFlags(),
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "run an MCP stdio server, starting an internal API server when none is reachable",
				Flags: append(commonFlags(), &cli.StringFlag{
					Name:  "api-url",
					Usage: "base URL of a running API server to proxy tool calls to",
				}),
				Action: runMCP,
			},
		},
	}
}

// commonFlags returns a fresh flag set for a command. Flags only override
// the config when explicitly set, so the file and environment still win
// for anything left at its default.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a YAML config file",
			Sources: cli.EnvVars("LOBE_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "HTTP server host",
			Value: config.DefaultHost,
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "HTTP server port",
			Value:   config.DefaultPort,
		},
		&cli.StringFlag{
			Name:  "content-dir",
			Usage: "directory containing content packs",
			Value: config.DefaultContentDir,
		},
		&cli.StringFlag{
			Name:  "default-pack",
			Usage: "pack used when a session does not name one",
			Value: config.DefaultPackID,
		},
		&cli.StringFlag{
			Name:  "session-store",
			Usage: "session snapshot backend (memory, file, redis, sqlite)",
		},
		&cli.StringFlag{
			Name:  "session-dir",
			Usage: "directory for file-backed session snapshots",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "enable debug logging",
		},
	}
}

// loadConfig assembles the configuration and layers explicitly-set flags
// on top, then re-validates the result.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("content-dir") {
		cfg.Content.Dir = cmd.String("content-dir")
	}
	if cmd.IsSet("default-pack") {
		cfg.Content.DefaultPack = cmd.String("default-pack")
	}
	if cmd.IsSet("session-store") {
		cfg.Sessions.Store = cmd.String("session-store")
	}
	if cmd.IsSet("session-dir") {
		cfg.Sessions.Dir = cmd.String("session-dir")
	}
	if cmd.Bool("debug") {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs always go to stderr so the
// MCP stdio transport keeps stdout to itself.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// serverStack bundles everything a running server needs, with cleanups
// recorded in build order so Close can release them in reverse.
type serverStack struct {
	Service  service.GameService
	Sessions *session.Manager
	Hub      *websocket.Hub
	API      *api.Server
	cleanups []func()
}

// Close releases backing connections in reverse build order.
func (s *serverStack) Close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
}

// buildStack wires the content source, pack manager, session store,
// session manager, WebSocket hub, game service, and API server.
func buildStack(ctx context.Context, cfg config.Config, logger *slog.Logger) (*serverStack, error) {
	stack := &serverStack{}

	source, cleanup, err := buildContentSource(ctx, cfg.Content, logger)
	if err != nil {
		return nil, fmt.Errorf("content source: %w", err)
	}
	if cleanup != nil {
		stack.cleanups = append(stack.cleanups, cleanup)
	}

	packs := content.NewManager(source, cfg.Content.DefaultPack, cfg.Content.CacheTTLDuration())

	store, err := buildSnapshotStore(cfg.Sessions)
	if err != nil {
		stack.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}
	if store != nil {
		stack.cleanups = append(stack.cleanups, func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close snapshot store", "error", err)
			}
		})
	}

	sessions := session.NewManagerWithStore(packs, store, logger)

	// Load persisted sessions on startup
	if err := sessions.LoadPersistedSessions(ctx); err != nil {
		logger.Warn("failed to load persisted sessions", "error", err)
	}

	hub := websocket.NewHub(logger)

	svc := service.NewGameService(sessions, packs, service.Options{
		Sink:            hub,
		Logger:          logger,
		AutosaveSeconds: cfg.Sessions.AutosaveSeconds,
	})

	stack.Service = svc
	stack.Sessions = sessions
	stack.Hub = hub
	stack.API = api.NewServer(svc, hub, logger)
	return stack, nil
}

// buildContentSource constructs the configured pack source. The returned
// cleanup releases any backing connection and may be nil.
func buildContentSource(ctx context.Context, cfg config.ContentConfig, logger *slog.Logger) (content.Source, func(), error) {
	switch cfg.Source {
	case config.SourceFS:
		source, err := content.NewFSSource(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return source, nil, nil

	case config.SourceMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			disconnectMongo(client, logger)
			return nil, nil, fmt.Errorf("mongo ping: %w", err)
		}

		collection := cfg.Mongo.Collection
		if collection == "" {
			collection = "packs"
		}
		source := content.NewMongoSource(client.Database(cfg.Mongo.Database).Collection(collection))
		return source, func() { disconnectMongo(client, logger) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown content source %q", cfg.Source)
	}
}

func disconnectMongo(client *mongo.Client, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("failed to disconnect mongo", "error", err)
	}
}

// buildSnapshotStore constructs the configured session store. The memory
// store is the nil store: the manager keeps everything in RAM.
func buildSnapshotStore(cfg config.SessionsConfig) (session.SnapshotStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return nil, nil
	case config.StoreFile:
		return session.NewFileStore(cfg.Dir)
	case config.StoreRedis:
		return session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTLDuration())
	case config.StoreSQLite:
		return session.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// runServe starts the HTTP server with the REST API, the WebSocket hub,
// and an /mcp proxy endpoint, then blocks until a shutdown signal.
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Debug)
	slog.SetDefault(logger)
	logger.Info("starting", "app", AppName, "version", Version, "mode", "serve")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := buildStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	addr := cfg.Server.ListenAddr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      withMCPEndpoint(stack.API, selfURL(cfg.Server)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stack.Hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		stack.Service.RunTimerLoop(ctx)
		return nil
	})

	g.Go(func() error {
		runCleanupLoop(ctx, stack.Sessions, cfg.Sessions.CleanupIntervalDuration(), cfg.Sessions.MaxAgeDuration(), logger)
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", addr)
		logger.Info("endpoints ready",
			"rest", fmt.Sprintf("http://%s/api", addr),
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	// Final save so a restart resumes games where players left them.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if saveErr := stack.Sessions.SaveAll(saveCtx); saveErr != nil {
		logger.Warn("final session save failed", "error", saveErr)
	}

	logger.Info("server stopped")
	return err
}

// runCleanupLoop periodically drops sessions idle longer than maxAge.
func runCleanupLoop(ctx context.Context, sessions *session.Manager, interval, maxAge time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.CleanupExpiredSessions(maxAge); removed > 0 {
				logger.Info("cleaned up expired sessions", "count", removed)
			}
		}
	}
}

// selfURL is the URL the in-process MCP client dials back on. A wildcard
// bind address is not dialable, so it maps to loopback.
func selfURL(cfg config.ServerConfig) string {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Port))
}

// withMCPEndpoint mounts the API at the root and an MCP JSON-RPC endpoint
// at /mcp, backed by a client that proxies tool calls to the API itself.
func withMCPEndpoint(apiHandler http.Handler, baseURL string) http.Handler {
	mcpClient := mcp.NewClient(baseURL)

	mux := http.NewServeMux()
	mux.Handle("/", apiHandler)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(data)
	})
	return mux
}

// runMCP serves MCP over stdio. It proxies to the API at --api-url when
// one is reachable and otherwise boots a private loopback server.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Stdout carries the MCP transport, so everything else stays on stderr.
	logger := newLogger(cfg.Debug)
	slog.SetDefault(logger)
	logger.Info("starting", "app", AppName, "version", Version, "mode", "mcp")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := cmd.String("api-url")
	if baseURL == "" {
		baseURL = selfURL(cfg.Server)
	}

	if apiReachable(baseURL) {
		logger.Info("using external API server", "url", baseURL)
	} else {
		logger.Info("no API server reachable, starting internal one", "probed", baseURL)
		internalURL, shutdown, err := startInternalServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", "api", baseURL)
	return server.ServeStdio(mcpClient.GetMCPServer())
}

// apiReachable reports whether an API server answers at baseURL.
func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// startInternalServer runs the full service stack on a random loopback
// port for the stdio MCP process to call back into. The returned shutdown
// stops the server, saves sessions, and releases backing connections.
func startInternalServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen: %w", err)
	}

	stack, err := buildStack(ctx, cfg, logger)
	if err != nil {
		listener.Close()
		return "", nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	go stack.Hub.Run(runCtx)
	go stack.Service.RunTimerLoop(runCtx)

	httpServer := &http.Server{Handler: stack.API}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("internal HTTP server error", "error", err)
		}
	}()

	// Wait a moment for the server to be ready
	time.Sleep(100 * time.Millisecond)

	addr := listener.Addr().String()
	logger.Info("internal API server listening", "addr", addr)

	shutdown := func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("internal server shutdown error", "error", err)
		}
		cancel()

		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		if err := stack.Sessions.SaveAll(saveCtx); err != nil {
			logger.Warn("final session save failed", "error", err)
		}
		stack.Close()
	}
	return "http://" + addr, shutdown, nil
}
