package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/spbot/internal/encounter"
	"github.com/myrjola/spbot/internal/envstruct"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/logging"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/mongostore"
	"github.com/myrjola/spbot/internal/nlu"
	"github.com/myrjola/spbot/internal/pprofserver"
	"github.com/myrjola/spbot/internal/redisstore"
	"github.com/myrjola/spbot/internal/repositories"
	"github.com/myrjola/spbot/internal/scope"
	"github.com/myrjola/spbot/internal/sqlite"
	"github.com/myrjola/spbot/internal/synonyms"
	"github.com/myrjola/spbot/internal/templates"
)

// caseCatalog lists and loads the stored cases.
type caseCatalog interface {
	FindCases(ctx context.Context, id string) ([]models.CaseRecord, error)
	Categories(ctx context.Context) ([]string, error)
	ChiefComplaints(ctx context.Context, category string) ([]models.ChiefComplaintOption, error)
	CaseIDs(ctx context.Context, category string) ([]string, error)
	AllCaseIDs(ctx context.Context) ([]string, error)
}

// blocker serializes the turns of a conversation.
type blocker interface {
	TryBlock(ctx context.Context, conversationID string) (bool, error)
	Unblock(ctx context.Context, conversationID string) error
}

type application struct {
	logger        *slog.Logger
	cases         caseCatalog
	index         *synonyms.Index
	encounters    *encounter.Service
	conversations *repositories.ConversationRepository
	blocker       blocker
	sessions      *sessionStore
	reportPage    *templates.Page
	botSecret     []byte
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr      string `env:"SPBOT_ADDR" envDefault:"localhost:4000"`
	SqliteURL string `env:"SPBOT_SQLITE_URL" envDefault:"spbot.sqlite3"`
	// BotSecret signs the HS256 bearer tokens of the messaging channel.
	BotSecret string        `env:"SPBOT_BOT_SECRET"`
	MongoURI  string        `env:"SPBOT_MONGO_URI" envDefault:""`
	MongoDB   string        `env:"SPBOT_MONGO_DB" envDefault:"spbot"`
	RedisAddr string        `env:"SPBOT_REDIS_ADDR" envDefault:""`
	BlockTTL  time.Duration `env:"SPBOT_BLOCK_TTL" envDefault:"30s"`
	PprofAddr string        `env:"SPBOT_PPROF_ADDR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg    config
		nluCfg nlu.Config
		err    error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	if err = envstruct.Populate(&nluCfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate NLU config")
	}
	if cfg.BotSecret == "" {
		return errors.New("SPBOT_BOT_SECRET must not be empty")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()

	conversations := repositories.NewConversationRepository(db, cfg.BlockTTL, logger)
	var (
		cases        caseCatalog    = repositories.NewCaseRepository(db, logger)
		synonymStore synonyms.Store = repositories.NewSynonymRepository(db, logger)
		scopeStore   scope.Store    = conversations
		turnBlocker  blocker        = conversations
	)

	if cfg.MongoURI != "" {
		var store *mongostore.Store
		if store, err = mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB, logger); err != nil {
			return errors.Wrap(err, "connect mongo")
		}
		defer func() {
			if closeErr := store.Close(context.Background()); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "close mongo", errors.SlogError(closeErr))
			}
		}()
		cases = store
		synonymStore = store
	}

	if cfg.RedisAddr != "" {
		client, redisErr := redisstore.NewClient(ctx, cfg.RedisAddr, logger)
		if redisErr != nil {
			return errors.Wrap(redisErr, "connect redis")
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "close redis", errors.SlogError(closeErr))
			}
		}()
		scopeStore = redisstore.NewScopeStore(client, logger)
		turnBlocker = redisstore.NewBlocker(client, cfg.BlockTTL)
	}

	var reportPage *templates.Page
	if reportPage, err = templates.Parse("report"); err != nil {
		return errors.Wrap(err, "parse report page")
	}

	app := application{
		logger:        logger,
		cases:         cases,
		index:         synonyms.NewIndex(synonymStore, logger.With("source", "SynonymIndex")),
		conversations: conversations,
		blocker:       turnBlocker,
		sessions:      newSessionStore(),
		reportPage:    reportPage,
		botSecret:     []byte(cfg.BotSecret),
		encounters: encounter.NewService(
			scope.NewTracker(scopeStore, logger.With("source", "ScopeTracker")),
			nlu.NewClient(nluCfg, logger),
			conversations,
			logger,
		),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
