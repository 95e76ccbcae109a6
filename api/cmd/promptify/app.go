package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"promptify/api/internal/auth"
	"promptify/api/internal/config"
	"promptify/api/internal/generate"
	"promptify/api/internal/llm"
	"promptify/api/internal/llm/deepseek"
	"promptify/api/internal/llm/gemini"
	"promptify/api/internal/llm/geminisdk"
	"promptify/api/internal/llm/googlegenai"
	"promptify/api/internal/llm/openai"
	"promptify/api/internal/logging"
	"promptify/api/internal/spell"
	"promptify/api/internal/store"
)

// app holds everything the subcommands share.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	engines *llm.Engines
	gen     *generate.Service
	db      *sql.DB
	auth    *auth.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, err
	}

	words, err := spell.NewWordList(cfg.ExtraMisspellings)
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}
	norm := spell.NewNormalizer(words, cfg.ExtraMisspellings, log.Named("spell"))

	engines := newEngines(cfg)
	log.Info("llm engines",
		zap.String("default", cfg.Provider),
		zap.Strings("available", engines.Names()),
		zap.Duration("timeout", cfg.UpstreamTimeout))

	return &app{
		cfg:     cfg,
		log:     log,
		engines: engines,
		gen:     generate.NewService(norm, engines, cfg.UpstreamTimeout, log.Named("generate")),
	}, nil
}

// newEngines registers a client per provider that has a key.
func newEngines(cfg *config.Config) *llm.Engines {
	var clients []llm.Client
	if cfg.GeminiAPIKey != "" {
		clients = append(clients,
			gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
			geminisdk.New(cfg.GeminiAPIKey, cfg.GeminiModel),
			googlegenai.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		)
	}
	if cfg.OpenAIAPIKey != "" {
		clients = append(clients, openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	}
	if cfg.DeepseekAPIKey != "" {
		clients = append(clients, deepseek.New(cfg.DeepseekAPIKey, cfg.DeepseekModel, cfg.DeepseekBaseURL))
	}
	return llm.NewEngines(cfg.Provider, clients...)
}

// openAccounts connects Postgres and builds the auth service when
// DATABASE_URL is set.
func (a *app) openAccounts(ctx context.Context) error {
	if a.cfg.DatabaseURL == "" {
		if a.cfg.RequireAuth {
			return errors.New("REQUIRE_AUTH needs DATABASE_URL")
		}
		return nil
	}
	octx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := store.Open(octx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.log.Info("db connected", zap.String("dsn", store.SafeDSNSummary(a.cfg.DatabaseURL)))

	users := store.NewUserRepo(db)
	if err := users.EnsureSchema(octx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}

	var google auth.GoogleVerifier
	if a.cfg.GoogleClientID != "" {
		google = auth.IDTokenVerifier{ClientID: a.cfg.GoogleClientID}
	}
	a.db = db
	a.auth = auth.NewService(users, auth.NewTokens(a.cfg.JWTSecret, a.cfg.JWTTTL), google, a.log.Named("auth"))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}
