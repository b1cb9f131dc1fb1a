// Package app assembles the dashboard service from configuration.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"jobmarket/internal/config"
	"jobmarket/internal/corpus"
	"jobmarket/internal/domain"
	"jobmarket/internal/embedding/tfidf"
	"jobmarket/internal/matcher"
	"jobmarket/internal/salary"
	"jobmarket/internal/service"
	"jobmarket/internal/vectorstore"
	"jobmarket/internal/vectorstore/memory"
	"jobmarket/internal/vectorstore/qdrant"
)

// Build loads the corpus and model artifacts and wires the dashboard service.
// Failure to load either artifact is unrecoverable for the session.
func Build(ctx context.Context, cfg *config.AppConfig, logger *log.Logger) (*service.DashboardService, error) {
	if logger == nil {
		logger = log.Default()
	}

	var (
		raw []domain.RawJob
		emb *tfidf.Embedder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = corpus.Loader{Table: cfg.Data.SQLiteTable}.Load(gctx, cfg.Data.CorpusPath)
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		emb, err = tfidf.Load(cfg.Data.ModelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	jobs := corpus.Normalize(raw, corpus.NewRand(cfg.Data.Seed))
	c := corpus.New(jobs)

	store, err := newStore(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	m, err := matcher.New(c.Jobs(), emb, store)
	if err != nil {
		return nil, err
	}
	logger.Printf("loaded %d jobs from %s, %d-term vocabulary from %s (%s store)",
		c.Len(), cfg.Data.CorpusPath, emb.VocabularySize(), cfg.Data.ModelPath, cfg.VectorStore.Type)

	limits := service.Limits{
		Recommend:  cfg.Search.RecommendTopK,
		SkillGap:   cfg.Search.SkillGapTopK,
		Highlights: cfg.Search.HighlightLimit(),
	}
	return service.NewDashboardService(c, m, emb, salary.NewFormatter(multipliers(cfg.Salary)), limits), nil
}

func newStore(cfg config.VectorStoreConfig) (vectorstore.Storage, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.QdrantAPIKey(),
			Collection: cfg.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

func multipliers(cfg config.SalaryConfig) map[salary.Level]float64 {
	out := make(map[salary.Level]float64, len(cfg.Multipliers))
	for k, v := range cfg.Multipliers {
		out[salary.Level(k)] = v
	}
	return out
}
