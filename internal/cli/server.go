package cli

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-duel-service/internal/app"
	"trivia-duel-service/internal/config"
	"trivia-duel-service/internal/infra/memory"
	pgloader "trivia-duel-service/internal/infra/postgres"
	redisinfra "trivia-duel-service/internal/infra/redis"
	transport "trivia-duel-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the duel server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Uploaded packs come from Postgres when configured; otherwise only the
	// builtin placeholder pool is available.
	var loader memory.PackLoader = memory.NewStaticPackLoader(nil)
	if pool != nil {
		loader = pgloader.NewPackLoader(pool)
	}

	packTTL := config.Duration(cfg.Packs.TTL, 10*time.Minute)
	var catalog app.PackCatalog
	if redisClient != nil {
		catalog = redisinfra.NewPackRepository(redisClient, loader, packTTL)
	} else {
		catalog = memory.NewPackRepository(loader, packTTL)
	}
	packs := app.NewPackResolver(catalog, memory.PlaceholderPack(), newRand())

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	opts := []app.Option{app.WithLogger(logger)}
	if cfg.Game.SendPolicy == string(app.SendReject) {
		opts = append(opts, app.WithSendPolicy(app.SendReject))
	}
	opts = append(opts, app.WithBotConfig(botConfig(cfg)))

	service := app.NewGameService(store, packs, opts...)
	wsHandler := transport.NewWSHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Msg("starting trivia duel service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func botConfig(cfg config.Config) app.BotConfig {
	defaults := app.DefaultBotConfig()
	return app.BotConfig{
		SendDelayMin:   config.Duration(cfg.Bot.SendDelayMin, defaults.SendDelayMin),
		SendDelayMax:   config.Duration(cfg.Bot.SendDelayMax, defaults.SendDelayMax),
		AnswerDelayMin: config.Duration(cfg.Bot.AnswerDelayMin, defaults.AnswerDelayMin),
		AnswerDelayMax: config.Duration(cfg.Bot.AnswerDelayMax, defaults.AnswerDelayMax),
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func newLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(cw).With().Timestamp().Logger()
}
