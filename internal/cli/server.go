package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"proctor-scoring-service/internal/app"
	"proctor-scoring-service/internal/catalog"
	"proctor-scoring-service/internal/config"
	"proctor-scoring-service/internal/domain"
	"proctor-scoring-service/internal/infra/memory"
	pgstore "proctor-scoring-service/internal/infra/postgres"
	redisstore "proctor-scoring-service/internal/infra/redis"
	transport "proctor-scoring-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the scoring server",
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

	engine, cleanup, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := transport.NewHandler(engine)
	feedHandler := transport.NewRankingFeedHandler(engine.Feed())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /exams/{id}/score", handler.ScoreExam)
	mux.HandleFunc("GET /exams/{id}/report", handler.Report)
	mux.HandleFunc("GET /algorithm", handler.Algorithm)
	mux.HandleFunc("POST /rankings/recompute", handler.RecomputeRankings)
	mux.HandleFunc("/ws/rankings", feedHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting scoring service on :%s", finalPort)
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

// buildEngine wires the scoring service from config: Postgres-backed
// stores when a URL is configured, in-memory demo stores otherwise, with
// an optional Redis answer-key cache in front of the question loader.
func buildEngine(ctx context.Context, cfg config.Config) (*app.ScoringService, func(), error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	scope := domain.ViolationScope(cfg.Scoring.ViolationScope)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)

	cleanup := func() {}

	var (
		exams      app.ExamRepository
		scores     app.ScoreRepository
		violations app.ViolationRepository
		loader     memory.QuestionLoader
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		cleanup = func() {
			pool.Close()
			_ = db.Close()
		}

		exams = pgstore.NewExamRepository(db)
		scores = pgstore.NewScoreRepository(db)
		violations = pgstore.NewViolationRepository(db)
		loader = pgstore.NewQuestionLoader(pool)
	} else {
		examStore, violationStore := demoStores()
		exams = examStore
		scores = memory.NewScoreStore()
		violations = violationStore
		loader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	}

	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	return app.NewScoringService(exams, scores, questions, violations, cat, scope), cleanup, nil
}

// demoStores seeds one ongoing exam and a couple of proctoring events so
// the service is exercisable without Postgres.
func demoStores() (*memory.ExamStore, *memory.ViolationStore) {
	exams := memory.NewExamStore()
	exams.Put(domain.Exam{
		ID:            1,
		StudentID:     1,
		ExamName:      "Engineering Aptitude Demo",
		QuestionSetID: "qset-demo",
		Status:        domain.StatusOngoing,
	})

	violations := memory.NewViolationStore()
	violations.Append(domain.ViolationEvent{
		ID:             1,
		StudentID:      1,
		ExamID:         1,
		EventType:      domain.ViolationGazeDetected,
		TabSwitchCount: 1,
		OccurredAt:     time.Now().Add(-10 * time.Minute),
	})
	return exams, violations
}

// sampleQuestionSets provides a minimal question bank; swap the loader
// with the Postgres-backed one in production.
func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"qset-demo": {
			ID: "qset-demo",
			Questions: []domain.Question{
				{ID: "1", Prompt: "Which option breaks the argument?", CorrectAnswer: "b", Competency: domain.CriticalThinking},
				{ID: "2", Prompt: "Pick the clearest summary", CorrectAnswer: "a", Competency: domain.Communication},
				{ID: "3", Prompt: "Your tooling changed overnight; first step?", CorrectAnswer: "c", Competency: domain.Adaptability},
				{ID: "4", Prompt: "Unit of stress?", CorrectAnswer: "pascal", Competency: domain.BasicEngineering},
				{ID: "5", Prompt: "Time complexity of binary search?", CorrectAnswer: "log n", Competency: domain.Technical},
			},
		},
	}
}
