package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"trivia-duel-service/internal/app"
	"trivia-duel-service/internal/domain"
	pgloader "trivia-duel-service/internal/infra/postgres"
	pgmigrations "trivia-duel-service/internal/infra/postgres/migrations"
	infraredis "trivia-duel-service/internal/infra/redis"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/jackc/pgx/v4/pgxpool"
)

func TestDuelEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedPack(t, ctx, pgURL, samplePack())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewPackLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	packRepo := infraredis.NewPackRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)

	resolver := app.NewPackResolver(packRepo, domain.QuestionPack{}, rand.New(rand.NewSource(7)))
	service := app.NewGameService(sessionStore, resolver)

	state, err := service.CreateGame(ctx, domain.PackSelection{
		Type:         domain.PackSpecific,
		SpecificFile: "capitals",
	}, false)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if len(state.QuestionBank) != domain.TotalRounds {
		t.Fatalf("expected a %d question bank, got %d", domain.TotalRounds, len(state.QuestionBank))
	}

	if _, err := service.JoinGame(state.ID, domain.PlayerTwo); err != nil {
		t.Fatalf("join: %v", err)
	}

	head := state.Players[domain.PlayerOne].Stack[0].QuestionID
	if err := service.SendQuestion(state.ID, domain.PlayerOne); err != nil {
		t.Fatalf("send: %v", err)
	}
	question := state.QuestionBank[head]
	if err := service.AnswerQuestion(state.ID, domain.PlayerTwo, head, question.CorrectAnswer); err != nil {
		t.Fatalf("answer: %v", err)
	}

	after, err := service.SyncGame(state.ID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if after.Players[domain.PlayerTwo].Score != 1 {
		t.Fatalf("expected score 1 after a correct tier-1 answer, got %d", after.Players[domain.PlayerTwo].Score)
	}

	// A second create reads the pack from the Redis cache and must still work.
	if _, err := service.CreateGame(ctx, domain.PackSelection{
		Type:         domain.PackSpecific,
		SpecificFile: "capitals",
	}, false); err != nil {
		t.Fatalf("second create: %v", err)
	}
}

func TestRandomPackSelectionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	seedPack(t, ctx, pgURL, samplePack())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewPackLoader(pool)
	names, err := loader.ListPacks(ctx)
	if err != nil {
		t.Fatalf("list packs: %v", err)
	}
	if len(names) != 1 || names[0] != "capitals" {
		t.Fatalf("expected [capitals], got %v", names)
	}

	resolver := app.NewPackResolver(loader, domain.QuestionPack{}, rand.New(rand.NewSource(7)))
	pack, err := resolver.GetPack(ctx, domain.PackSelection{Type: domain.PackRandom})
	if err != nil {
		t.Fatalf("random pack: %v", err)
	}
	if pack.Name != "capitals" {
		t.Fatalf("expected the seeded pack, got %q", pack.Name)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "duel", "POSTGRES_PASSWORD": "duelpass", "POSTGRES_DB": "dueldb"},
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
	dsn := fmt.Sprintf("postgres://duel:duelpass@%s:%s/dueldb?sslmode=disable", host, port.Port())
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

func seedPack(t *testing.T, ctx context.Context, dsn string, pack domain.QuestionPack) {
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

	data, err := json.Marshal(pack)
	if err != nil {
		t.Fatalf("marshal pack: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO question_packs (name, data) VALUES (?, ?::jsonb) ON CONFLICT (name) DO UPDATE SET data=EXCLUDED.data`, pack.Name, string(data)); err != nil {
		t.Fatalf("insert pack: %v", err)
	}
}

func samplePack() domain.QuestionPack {
	pack := domain.QuestionPack{Name: "capitals"}
	for i := 1; i <= domain.TotalRounds; i++ {
		pack.Questions = append(pack.Questions, domain.Question{
			ID:            fmt.Sprintf("q%d", i),
			Text:          fmt.Sprintf("Question %d?", i),
			CorrectAnswer: "right",
			Distractors:   []string{"wrong1", "wrong2", "wrong3"},
		})
	}
	return pack
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
