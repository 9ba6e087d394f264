package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-arena-service/internal/app"
	"quiz-arena-service/internal/config"
	"quiz-arena-service/internal/domain"
	"quiz-arena-service/internal/infra/memory"
	pgstore "quiz-arena-service/internal/infra/postgres"
	redisinfra "quiz-arena-service/internal/infra/redis"
	transport "quiz-arena-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz arena server",
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestions())
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questionRepo app.QuestionRepository
	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionRepository(redisClient, loader, quizTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(loader, quizTTL)
	}

	var profiles app.ProfileRepository
	if pool != nil {
		profiles = pgstore.NewProfileStore(pool)
	} else {
		profiles = memory.NewProfileStore()
	}

	var mmPool app.MatchmakingPool
	if redisClient != nil {
		mmPool = redisinfra.NewMatchmakingPool(redisClient)
	} else {
		mmPool = memory.NewMatchmakingPool()
	}

	questionService := app.NewQuestionService(questionRepo)
	progressionService := app.NewProgressionService(profiles, cfg.Progression.SaveRetries)
	matchmakingService := app.NewMatchmakingService(mmPool, cfg.Matchmaking.RatingBand)

	pollInterval := config.TTLDuration(cfg.Matchmaking.PollInterval, 2*time.Second)
	handler := transport.NewHandler(questionService, progressionService)
	wsHandler := transport.NewWSHandler(matchmakingService, pollInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/matchmaking", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz arena service on :%s", finalPort)
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

// sampleQuestions provides a minimal question bank; swap this loader with
// the Postgres-backed one in production.
func sampleQuestions() map[string][]domain.Question {
	return map[string][]domain.Question{
		"science": {
			{
				ID:       "q1",
				Question: "What is the chemical symbol for gold?",
				Options: []domain.Option{
					{ID: "o1", Text: "Au"},
					{ID: "o2", Text: "Ag"},
					{ID: "o3", Text: "Gd"},
				},
				CorrectAnswer: "o1",
				Category:      "science",
				Difficulty:    domain.DifficultyEasy,
				Points:        5,
				Explanation:   "Gold's symbol comes from the Latin aurum.",
			},
			{
				ID:       "q2",
				Question: "Which planet has the most moons?",
				Options: []domain.Option{
					{ID: "o1", Text: "Jupiter"},
					{ID: "o2", Text: "Saturn"},
					{ID: "o3", Text: "Neptune"},
				},
				CorrectAnswer: "o2",
				Category:      "science",
				Difficulty:    domain.DifficultyMedium,
				Points:        7,
			},
		},
	}
}
