package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kejionglee/iphall-landing-page/agent/agents/workflow"
	catalogx "github.com/kejionglee/iphall-landing-page/agent/catalog"
	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	quotationx "github.com/kejionglee/iphall-landing-page/agent/quotation"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
	configx "github.com/kejionglee/iphall-landing-page/pkg/config"
	qstashx "github.com/kejionglee/iphall-landing-page/pkg/qstash"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Documents string `envconfig:"DOCUMENTS" default:"stub"`
}

type CatalogConfig struct {
	Source string `envconfig:"SOURCE" default:"memory"`
	File   string `envconfig:"FILE"`
}

// app holds the collaborators shared by serve and chat.
type app struct {
	catalog   contractx.Catalog
	composer  contractx.Composer
	documents contractx.DocumentGenerator
	engine    *workflow.Engine

	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func buildApp(ctx context.Context) (*app, error) {
	a := &app{}

	provider, err := buildProvider(ctx, a)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.catalog, err = catalogx.New(provider)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	a.composer, err = quotationx.NewComposer(a.catalog)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	a.documents, err = buildDocuments()
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	store, err := buildStore(a)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	a.engine, err = workflow.New(store, a.catalog, a.composer, a.documents)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	return a, nil
}

func buildProvider(ctx context.Context, a *app) (catalogx.Provider, error) {
	cfg, err := configx.New[CatalogConfig]("CATALOG")
	if err != nil {
		return nil, err
	}

	source := strings.ToLower(strings.TrimSpace(cfg.Source))
	log.Info().Str("source", source).Msg("catalog backend")

	switch source {
	case "memory", "":
		return catalogx.NewMemoryProvider(catalogx.SampleRecords())
	case "file":
		records, err := catalogx.LoadRecordsFile(cfg.File)
		if err != nil {
			return nil, err
		}
		return catalogx.NewMemoryProvider(records)
	case "postgres":
		provider, err := openPostgresProvider()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, provider.Close)
		cacheCfg, err := configx.New[catalogx.CacheConfig]("CATALOG_CACHE")
		if err != nil {
			return nil, err
		}
		return catalogx.NewCachedProvider(provider, *cacheCfg), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

func openPostgresProvider() (*catalogx.PostgresProvider, error) {
	dbCfg, err := configx.New[catalogx.PostgresConfig]("DATABASE")
	if err != nil {
		return nil, err
	}
	db, err := catalogx.OpenPostgres(*dbCfg)
	if err != nil {
		return nil, err
	}
	return catalogx.NewPostgresProvider(db)
}

func buildDocuments() (contractx.DocumentGenerator, error) {
	cfg, err := configx.New[AppConfig]("APP")
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Documents)) {
	case "stub", "":
		return quotationx.StubDocumentGenerator{}, nil
	case "qstash":
		qstashCfg, err := configx.New[qstashx.Config]("QSTASH")
		if err != nil {
			return nil, err
		}
		client, err := qstashx.NewClient(*qstashCfg)
		if err != nil {
			return nil, err
		}
		dispatchCfg, err := configx.New[quotationx.DispatchConfig]("QSTASH")
		if err != nil {
			return nil, err
		}
		return quotationx.NewDispatchingDocumentGenerator(client, *dispatchCfg)
	default:
		return nil, fmt.Errorf("unknown document generator %q", cfg.Documents)
	}
}

func buildStore(a *app) (statex.Store, error) {
	cfg, err := configx.New[statex.StoreConfig]("STORE")
	if err != nil {
		return nil, err
	}
	opts := []statex.StoreOption{statex.WithKeyPrefix(cfg.KeyPrefix), statex.WithTTL(cfg.TTL)}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	log.Info().Str("backend", backend).Msg("session store backend")

	switch backend {
	case "memory", "":
		return statex.NewMemoryStore(cfg.Size, opts...)
	case "redis":
		redisCfg, err := configx.New[statex.RedisConfig]("REDIS")
		if err != nil {
			return nil, err
		}
		client := statex.NewRedisClient(*redisCfg)
		a.closers = append(a.closers, client.Close)
		return statex.NewRedisStore(client, opts...)
	case "upstash":
		upstashCfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		if err != nil {
			return nil, err
		}
		return statex.NewUpstashRedisStore(*upstashCfg, opts...)
	default:
		return nil, fmt.Errorf("unknown session store backend %q", cfg.Backend)
	}
}
