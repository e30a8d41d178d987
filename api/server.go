package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	RateLimitRPS    float64       `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst  int           `envconfig:"RATE_LIMIT_BURST" default:"20"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxMessageBytes int           `envconfig:"MAX_MESSAGE_BYTES" default:"2000"`
}

// Assistant is the conversation engine behind /api/v1/chat.
type Assistant interface {
	HandleMessage(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResponse, error)
}

type Server struct {
	assistant Assistant
	catalog   contractx.Catalog
	composer  contractx.Composer
	documents contractx.DocumentGenerator

	limiter *RateLimiter
	cfg     Config
	now     func() time.Time
}

func NewServer(
	assistant Assistant,
	catalog contractx.Catalog,
	composer contractx.Composer,
	documents contractx.DocumentGenerator,
	cfg Config,
) (*Server, error) {
	switch {
	case assistant == nil:
		return nil, errors.New("assistant is required")
	case catalog == nil:
		return nil, errors.New("catalog is required")
	case composer == nil:
		return nil, errors.New("composer is required")
	case documents == nil:
		return nil, errors.New("document generator is required")
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 5
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 2000
	}

	return &Server{
		assistant: assistant,
		catalog:   catalog,
		composer:  composer,
		documents: documents,
		limiter:   NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api", s.handleIndex)
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/chat", s.handleChat)
	mux.HandleFunc("GET /api/quotation/services", s.handleServices)
	mux.HandleFunc("GET /api/quotation/services/{service}/countries", s.handleCountries)
	mux.HandleFunc("GET /api/quotation/services/{service}/countries/{country}/items", s.handleItems)
	mux.HandleFunc("GET /api/quotation/generate/{service}/{country}/{item}", s.handleGenerate)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "No route matches "+r.URL.Path)
	})

	var h http.Handler = mux
	h = s.limiter.Middleware(h)
	h = CORS(s.cfg.AllowedOrigins)(h)
	h = AccessLog(h)
	h = RequestID(h)
	return h
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go s.limiter.Run(limiterCtx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	log.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
