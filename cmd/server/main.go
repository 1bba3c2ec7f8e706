package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npezzotti/aqevia/internal/api"
	"github.com/npezzotti/aqevia/internal/config"
	"github.com/npezzotti/aqevia/internal/database"
	"github.com/npezzotti/aqevia/internal/server"
	"github.com/npezzotti/aqevia/internal/stats"
	"github.com/npezzotti/aqevia/internal/world"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	store          string
	dsn            string
	signingKey     string
	allowedOrigins stringSliceFlag
	startRoom      string
)

func openRepository(cfg *config.Config, logger *log.Logger) (database.MudRepository, error) {
	if cfg.Store == config.StoreMemory {
		logger.Println("using in-memory store, the world is lost on exit")
		return database.NewMemoryMudRepository(), nil
	}

	logger.Println("running database migrations...")
	if err := database.Migrate(cfg.DatabaseDSN); err != nil {
		return nil, err
	}

	return database.NewPgMudRepository(cfg.DatabaseDSN)
}

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&store, "store", config.StoreMemory, "entity store, postgres or memory")
	flag.StringVar(&dsn, "dsn", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable", "database connection string")
	flag.StringVar(&signingKey, "signing-key", defaultSigningKey, "base64 encoded signing key")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.StringVar(&startRoom, "start-room", "", "id of the room new characters start in")
	flag.Parse()

	logger := log.New(os.Stderr, "[aqevia] ", log.LstdFlags)
	logger.Printf("aqevia %s starting", version)

	cfg, err := config.NewConfig(addr, store, dsn, signingKey, allowedOrigins, startRoom)
	if err != nil {
		logger.Fatal("config:", err)
	}

	repo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	w := world.NewService(logger, repo, cfg.StartRoomId)
	if cfg.StartRoomId != "" {
		if _, err := w.GetRoom(cfg.StartRoomId); err != nil {
			logger.Fatalf("start room %q: %v", cfg.StartRoomId, err)
		}
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)
	statsUpdater.SetInfo("Version", version)
	statsUpdater.SetInfo("Backend", cfg.Store)

	gameServer, err := server.NewGameServer(logger, w, statsUpdater)
	if err != nil {
		logger.Fatal("new game server:", err)
	}
	w.SetNotifier(gameServer)

	srv := api.NewMudApp(mux, logger, gameServer, w, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Println("HTTP server shutdown:", err)
	}

	logger.Println("shutting down game server...")
	if err := gameServer.Shutdown(shutDownCtx); err != nil {
		logger.Println("game server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
