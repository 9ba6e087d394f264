package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiz-arena-service/internal/app"
	"quiz-arena-service/internal/domain"
	pgstore "quiz-arena-service/internal/infra/postgres"
	pgmigrations "quiz-arena-service/internal/infra/postgres/migrations"
	infraredis "quiz-arena-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestGameFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuestions(t, ctx, pgURL, sampleQuestions())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	loader := pgstore.NewQuestionLoader(pool)
	questionRepo := infraredis.NewQuestionRepository(redisClient, loader, 5*time.Minute)
	questionService := app.NewQuestionService(questionRepo)

	questions, err := questionService.Questions(ctx, "science", "", 10)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 seeded questions, got %d", len(questions))
	}

	profiles := pgstore.NewProfileStore(pool)
	progression := app.NewProgressionService(profiles, 3)

	profile, err := progression.ApplyGameResult(ctx, "u1", "Alice", domain.GameResult{
		Category:       "science",
		Score:          55,
		CorrectAnswers: 5,
		TotalQuestions: 5,
		TimeSpent:      40,
		IsWin:          true,
	})
	if err != nil {
		t.Fatalf("apply game result: %v", err)
	}
	if profile.Stats.GamesPlayed != 1 || profile.Stats.Wins != 1 {
		t.Fatalf("expected one won game, got %+v", profile.Stats)
	}
	if profile.LeaguePoints != 25 {
		t.Fatalf("expected 25 league points, got %d", profile.LeaguePoints)
	}

	// second game goes through the optimistic-concurrency update path
	profile, err = progression.ApplyGameResult(ctx, "u1", "Alice", domain.GameResult{
		Category:       "science",
		Score:          20,
		CorrectAnswers: 2,
		TotalQuestions: 5,
		TimeSpent:      30,
		IsWin:          false,
	})
	if err != nil {
		t.Fatalf("apply second game: %v", err)
	}
	if profile.Stats.GamesPlayed != 2 {
		t.Fatalf("expected 2 games played, got %d", profile.Stats.GamesPlayed)
	}

	stored, err := progression.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if stored.TotalXP != profile.TotalXP || stored.Level != profile.Level {
		t.Fatalf("stored profile diverged: stored=%+v applied=%+v", stored, profile)
	}

	leaders, err := profiles.TopByLeaguePoints(ctx, stored.League, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(leaders) != 1 || leaders[0].ID != "u1" {
		t.Fatalf("expected u1 on the leaderboard, got %+v", leaders)
	}
}

func TestMatchmakingEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	service := app.NewMatchmakingService(infraredis.NewMatchmakingPool(redisClient), 200)

	if _, err := service.Join(ctx, "u1", domain.ModeRanked, 1000, "science"); err != nil {
		t.Fatalf("join u1: %v", err)
	}
	if _, err := service.Join(ctx, "u2", domain.ModeRanked, 1050, "history"); err != nil {
		t.Fatalf("join u2: %v", err)
	}

	opponent, matched, err := service.FindMatch(ctx, "u2", domain.ModeRanked, 1050)
	if err != nil {
		t.Fatalf("find match: %v", err)
	}
	if !matched || opponent.UserID != "u1" {
		t.Fatalf("expected u2 to match u1, got matched=%v opponent=%+v", matched, opponent)
	}

	for _, userID := range []string{"u1", "u2"} {
		queued, err := service.IsQueued(ctx, userID)
		if err != nil {
			t.Fatalf("is queued %s: %v", userID, err)
		}
		if queued {
			t.Fatalf("expected %s removed from the queue after the match", userID)
		}
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
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
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
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

func seedQuestions(t *testing.T, ctx context.Context, dsn string, questions []domain.Question) {
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

	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			t.Fatalf("marshal question: %v", err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO questions (id, category, data) VALUES (?, ?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, q.ID, q.Category, string(data)); err != nil {
			t.Fatalf("insert question: %v", err)
		}
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       "q1",
			Question: "What is 2 + 2?",
			Options: []domain.Option{
				{ID: "o1", Text: "3"},
				{ID: "o2", Text: "4"},
				{ID: "o3", Text: "5"},
			},
			CorrectAnswer: "o2",
			Category:      "science",
			Difficulty:    domain.DifficultyEasy,
			Points:        5,
		},
		{
			ID:       "q2",
			Question: "Boiling point of water at sea level?",
			Options: []domain.Option{
				{ID: "o1", Text: "100C"},
				{ID: "o2", Text: "90C"},
			},
			CorrectAnswer: "o1",
			Category:      "science",
			Difficulty:    domain.DifficultyMedium,
			Points:        7,
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
