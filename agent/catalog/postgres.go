package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN          string        `envconfig:"DSN" required:"true"`
	DialTimeout  time.Duration `split_words:"true" default:"5s"`
	ReadTimeout  time.Duration `split_words:"true" default:"10s"`
	MaxOpenConns int           `split_words:"true" default:"10"`
}

const (
	createTableQuery = `CREATE TABLE IF NOT EXISTS quotationlist (
	id SERIAL PRIMARY KEY,
	service TEXT NOT NULL,
	country TEXT NOT NULL,
	item TEXT NOT NULL,
	"prof fee" NUMERIC NOT NULL DEFAULT 0,
	"official fee" NUMERIC NOT NULL DEFAULT 0,
	disbursement NUMERIC NOT NULL DEFAULT 0,
	currency TEXT NOT NULL
)`
	serviceNamesQuery = `SELECT service FROM quotationlist GROUP BY service ORDER BY MIN(id)`
	countriesQuery    = `SELECT country, MIN(currency) AS currency FROM quotationlist WHERE service = ? GROUP BY country ORDER BY MIN(id)`
	tariffColumns     = `service, country, item, "prof fee" AS prof_fee, "official fee" AS official_fee, disbursement, currency`
	tariffsQuery      = `SELECT ` + tariffColumns + ` FROM quotationlist WHERE service = ? AND country = ? ORDER BY id`
	tariffQuery       = `SELECT ` + tariffColumns + ` FROM quotationlist WHERE service = ? AND country = ? AND item = ? ORDER BY id LIMIT 1`
	countQuery        = `SELECT COUNT(*) FROM quotationlist`
	insertQuery       = `INSERT INTO quotationlist (service, country, item, "prof fee", "official fee", disbursement, currency) VALUES (?, ?, ?, ?, ?, ?, ?)`
)

// OpenPostgres opens a bun handle over pgdriver. It does not ping.
func OpenPostgres(cfg PostgresConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if cfg.DialTimeout > 0 {
		opts = append(opts, pgdriver.WithDialTimeout(cfg.DialTimeout))
	}
	if cfg.ReadTimeout > 0 {
		opts = append(opts, pgdriver.WithReadTimeout(cfg.ReadTimeout))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// PostgresProvider reads tariffs from the quotationlist table.
type PostgresProvider struct {
	db *bun.DB
}

var _ Provider = (*PostgresProvider)(nil)

func NewPostgresProvider(db *bun.DB) (*PostgresProvider, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &PostgresProvider{db: db}, nil
}

func (p *PostgresProvider) ServiceNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := p.db.NewRaw(serviceNamesQuery).Scan(ctx, &names); err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	return names, nil
}

func (p *PostgresProvider) Countries(ctx context.Context, service string) ([]CountryRow, error) {
	var rows []CountryRow
	if err := p.db.NewRaw(countriesQuery, service).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("query countries for %s: %w", service, err)
	}
	return rows, nil
}

func (p *PostgresProvider) Tariffs(ctx context.Context, service, country string) ([]Record, error) {
	var rows []Record
	if err := p.db.NewRaw(tariffsQuery, service, country).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("query tariffs for %s/%s: %w", service, country, err)
	}
	return rows, nil
}

func (p *PostgresProvider) Tariff(ctx context.Context, service, country, item string) (Record, error) {
	var row Record
	err := p.db.NewRaw(tariffQuery, service, country, item).Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: tariff %s/%s/%s", contractx.ErrNotFound, service, country, item)
	}
	if err != nil {
		return Record{}, fmt.Errorf("query tariff %s/%s/%s: %w", service, country, item, err)
	}
	return row, nil
}

func (p *PostgresProvider) CreateSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("create quotationlist: %w", err)
	}
	return nil
}

// Seed inserts records when the table is empty and reports how many were written.
func (p *PostgresProvider) Seed(ctx context.Context, records []Record) (int, error) {
	var count int
	if err := p.db.NewRaw(countQuery).Scan(ctx, &count); err != nil {
		return 0, fmt.Errorf("count quotationlist: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for i, r := range records {
		if err := r.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}

	err := p.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, r := range records {
			if _, err := tx.ExecContext(ctx, insertQuery,
				r.Service, r.Country, r.Item, r.ProfessionalFee, r.OfficialFee, r.Disbursement, r.Currency,
			); err != nil {
				return fmt.Errorf("insert %s/%s: %w", r.Service, r.Country, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}
