package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"live-trivia-service/internal/app"
	"live-trivia-service/internal/config"
	"live-trivia-service/internal/domain"
	"live-trivia-service/internal/infra/memory"
	pgloader "live-trivia-service/internal/infra/postgres"
	redisinfra "live-trivia-service/internal/infra/redis"
	transport "live-trivia-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const defaultRatePerMinute = 120

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var registry app.SessionRegistry
	if redisClient != nil {
		registry = redisinfra.NewSessionRegistry(redisClient, redisTTL)
	} else {
		registry = memory.NewSessionRegistry()
	}

	hub := transport.NewHub()
	service := app.NewGameService(registry, quizRepo, hub)
	wsHandler := transport.NewWSHandler(service, hub)

	ratePerMinute := cfg.Server.RatePerMinute
	if ratePerMinute <= 0 {
		ratePerMinute = defaultRatePerMinute
	}
	router := transport.NewRouter(service, wsHandler, ratePerMinute)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides demo content for running without Postgres; point
// postgres.url at a seeded database in production.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"general-1": {
			ID:    "general-1",
			Title: "General Knowledge",
			Questions: []domain.Question{
				{
					Text:         "Which planet is known as the Red Planet?",
					Choices:      []string{"Venus", "Mars", "Jupiter", "Mercury"},
					CorrectIndex: 1,
					TimeLimitSec: 15,
				},
				{
					Text:         "What is the largest ocean on Earth?",
					Choices:      []string{"Atlantic", "Indian", "Pacific", "Arctic"},
					CorrectIndex: 2,
					TimeLimitSec: 15,
				},
				{
					Text:         "How many continents are there?",
					Choices:      []string{"5", "6", "7", "8"},
					CorrectIndex: 2,
					TimeLimitSec: 10,
				},
			},
		},
		"capitals-1": {
			ID:    "capitals-1",
			Title: "World Capitals",
			Questions: []domain.Question{
				{
					Text:         "What is the capital of Australia?",
					Choices:      []string{"Sydney", "Melbourne", "Canberra"},
					CorrectIndex: 2,
					TimeLimitSec: 15,
				},
				{
					Text:         "What is the capital of Canada?",
					Choices:      []string{"Toronto", "Ottawa", "Vancouver"},
					CorrectIndex: 1,
					TimeLimitSec: 15,
				},
			},
		},
	}
}
