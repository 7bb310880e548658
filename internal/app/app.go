package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/external/jobqueue"
	"github.com/riskibarqy/prediction-league/external/sportsfeed"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/question"
	"github.com/riskibarqy/prediction-league/internal/domain/quiz"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	repocache "github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// Container wires repositories, external clients, and use case services
// for the api and listener binaries. DB is nil when running on the
// in-memory repositories.
type Container struct {
	Config config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	Leagues   league.Repository
	Rounds    round.Repository
	Matches   match.Repository
	Questions question.Repository
	Quizzes   quiz.Repository

	Feed *sportsfeed.Client
	Jobs *jobqueue.QStashPublisher

	Reconciliation *usecase.ReconciliationService
	Settlement     *usecase.SettlementService
}

func NewContainer(cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	if strings.TrimSpace(cfg.DBURL) == "" {
		quizzes := memory.SeedQuizzes()
		c.Leagues = memory.NewLeagueRepository(memory.SeedLeagues())
		c.Rounds = memory.NewRoundRepository(memory.SeedRounds())
		c.Matches = memory.NewMatchRepository(memory.SeedMatches())
		c.Questions = memory.NewQuestionRepository(memory.SeedQuestions(), quizzes)
		c.Quizzes = memory.NewQuizRepository(quizzes, memory.SeedSubmissions(), memory.SeedAnswers(), memory.SeedPrizeBrackets())
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.Leagues = postgres.NewLeagueRepository(db)
		if cfg.CacheEnabled {
			c.Leagues = repocache.NewLeagueRepository(c.Leagues, cache.NewStore(cfg.CacheTTL))
		}
		c.Rounds = postgres.NewRoundRepository(db)
		c.Matches = postgres.NewMatchRepository(db)
		c.Questions = postgres.NewQuestionRepository(db)
		c.Quizzes = postgres.NewQuizRepository(db)
	}

	if cfg.FeedEnabled {
		cacheTTL := time.Duration(0)
		if cfg.CacheEnabled {
			cacheTTL = cfg.CacheTTL
		}
		c.Feed = sportsfeed.NewClient(sportsfeed.ClientConfig{
			BaseURL:    cfg.FeedBaseURL,
			Token:      cfg.FeedToken,
			Timeout:    cfg.FeedTimeout,
			MaxRetries: cfg.FeedMaxRetries,
			CacheTTL:   cacheTTL,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FeedCircuitEnabled,
				FailureThreshold: cfg.FeedCircuitFailureCount,
				OpenTimeout:      cfg.FeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
			},
		})
	}

	if cfg.QStashEnabled {
		c.Jobs = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	var feed usecase.ResultsFeedProvider
	if c.Feed != nil {
		feed = c.Feed
	}
	var jobs usecase.SettlementEnqueuer
	if c.Jobs != nil {
		jobs = c.Jobs
	}

	c.Reconciliation = usecase.NewReconciliationService(
		feed,
		c.Leagues,
		c.Rounds,
		c.Matches,
		c.Questions,
		jobs,
		usecase.ReconciliationConfig{
			Enabled:              cfg.FeedEnabled,
			LeagueIDOverrides:    cfg.FeedLeagueIDByCode,
			ResultDeltaTolerance: cfg.ResultDeltaTolerance,
		},
		logger,
	)
	c.Settlement = usecase.NewSettlementService(
		c.Rounds,
		c.Questions,
		c.Quizzes,
		usecase.SettlementConfig{
			MinQualifyingCorrect: cfg.SettlementMinQualifying,
			PointsPerCorrect:     cfg.SettlementPointsPerCorrect,
			MaxWorkers:           cfg.SettlementMaxWorkers,
		},
		logger,
	)

	return c, nil
}

func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *Container, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(container.Reconciliation, container.Settlement, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = container.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, container, nil
}
