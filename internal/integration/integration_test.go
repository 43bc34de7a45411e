package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"live-trivia-service/internal/app"
	"live-trivia-service/internal/domain"
	pgloader "live-trivia-service/internal/infra/postgres"
	pgmigrations "live-trivia-service/internal/infra/postgres/migrations"
	infraredis "live-trivia-service/internal/infra/redis"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/jackc/pgx/v4/pgxpool"
)

// TestGameEndToEnd plays a full room over the Postgres quiz catalog and the
// redis-marked session registry: create, join, answer, reveal, final.
func TestGameEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuiz(t, ctx, pgURL, sampleQuiz())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	loader := pgloader.NewQuizLoader(pool)
	quizRepo := infraredis.NewQuizRepository(redisClient, loader, 5*time.Minute)
	registry := infraredis.NewSessionRegistry(redisClient, 5*time.Minute)
	gateway := &recordingGateway{}
	service := app.NewGameService(registry, quizRepo, gateway)

	summaries, err := service.ListQuizzes(ctx)
	if err != nil || len(summaries) != 1 || summaries[0].ID != "capitals" {
		t.Fatalf("listing: %v %+v", err, summaries)
	}

	if err := service.CreateGame(ctx, "capitals", "host-1"); err != nil {
		t.Fatalf("create game: %v", err)
	}
	pin := gateway.gameCreated(t).Pin

	if n, _ := redisClient.Exists(ctx, "game:session:"+pin).Result(); n != 1 {
		t.Fatalf("expected redis liveness marker for pin %s", pin)
	}

	if err := service.Join(pin, "conn-a", "Alice"); err != nil {
		t.Fatalf("join alice: %v", err)
	}
	if err := service.Join(pin, "conn-b", "Bob"); err != nil {
		t.Fatalf("join bob: %v", err)
	}

	service.StartGame(pin, "host-1")
	service.StartQuestion(pin, "host-1")

	service.Answer(pin, "conn-a", 1) // correct
	service.Answer(pin, "conn-b", 0) // incorrect

	results := gateway.answerResults()
	if len(results) != 2 {
		t.Fatalf("expected two answer receipts, got %d", len(results))
	}
	if !results[0].Correct || results[0].Gained < 200 || results[0].Gained > 1200 {
		t.Fatalf("unexpected score for alice: %+v", results[0])
	}
	if results[1].Correct || results[1].Total != 0 {
		t.Fatalf("expected zero for bob: %+v", results[1])
	}

	service.Reveal(pin, "host-1")
	service.StartQuestion(pin, "host-1") // past the last question, ends the game

	final := gateway.final(t)
	if len(final.Podium) != 2 || final.Podium[0].Name != "Alice" {
		t.Fatalf("unexpected podium %+v", final.Podium)
	}

	if _, ok := registry.Get(pin); ok {
		t.Fatalf("expected session gone after final")
	}
	if n, _ := redisClient.Exists(ctx, "game:session:"+pin).Result(); n != 0 {
		t.Fatalf("expected redis liveness marker cleared")
	}
}

// recordingGateway captures fan-out without a websocket layer.
type recordingGateway struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	event   string
	payload any
}

func (g *recordingGateway) JoinRoom(clientID, pin string) {}

func (g *recordingGateway) ToPlayer(clientID, event string, payload any) {
	g.record(event, payload)
}

func (g *recordingGateway) ToHost(hostID, event string, payload any) {
	g.record(event, payload)
}

func (g *recordingGateway) ToRoom(pin, event string, payload any) {
	g.record(event, payload)
}

func (g *recordingGateway) record(event string, payload any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, recordedEvent{event: event, payload: payload})
}

func (g *recordingGateway) gameCreated(t *testing.T) app.GameCreatedPayload {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range g.events {
		if e.event == app.EventGameCreated {
			return e.payload.(app.GameCreatedPayload)
		}
	}
	t.Fatalf("no game-created event recorded")
	return app.GameCreatedPayload{}
}

func (g *recordingGateway) answerResults() []domain.AnswerResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	var results []domain.AnswerResult
	for _, e := range g.events {
		if e.event == app.EventAnswerResult {
			results = append(results, e.payload.(domain.AnswerResult))
		}
	}
	return results
}

func (g *recordingGateway) final(t *testing.T) app.FinalPayload {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range g.events {
		if e.event == app.EventGameFinal {
			return e.payload.(app.FinalPayload)
		}
	}
	t.Fatalf("no final event recorded")
	return app.FinalPayload{}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "triviadb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/triviadb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedQuiz(t *testing.T, ctx context.Context, dsn string, quiz domain.Quiz) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(quiz)
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO quizzes (id, data) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, quiz.ID, string(data)); err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "capitals",
		Title: "World Capitals",
		Questions: []domain.Question{
			{
				Text:         "What is the capital of France?",
				Choices:      []string{"Lyon", "Paris", "Marseille"},
				CorrectIndex: 1,
				TimeLimitSec: 10,
			},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
