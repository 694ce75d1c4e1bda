package api

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/AlexZinkM/rose-wallet/docs"
	"github.com/AlexZinkM/rose-wallet/internal/handler"
	"github.com/AlexZinkM/rose-wallet/internal/metrics"
	"github.com/AlexZinkM/rose-wallet/internal/ratelimiter"
	"github.com/AlexZinkM/rose-wallet/internal/security"
)

// Options wire the router to its handlers and middleware
type Options struct {
	Wallet         *handler.WalletHandler
	Metrics        *metrics.Metrics
	Limiter        *ratelimiter.MapLimiter
	Security       security.CSPOptions
	AllowedOrigins []string
	Logger         *zap.Logger
}

// SetupRouter sets up router with handlers
func SetupRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Wallet endpoints
	walletMux := http.NewServeMux()
	opts.Wallet.Register(walletMux)

	var wallet http.Handler = walletMux
	wallet = security.Headers(opts.Security)(wallet)
	if opts.Limiter != nil {
		wallet = opts.Limiter.Middleware(wallet)
	}
	wallet = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	}).Handler(wallet)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("/", wallet)

	var root http.Handler = mux
	if opts.Metrics != nil {
		root = opts.Metrics.Middleware(root)
	}
	return requestLogger(logger.Named("http"))(root)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
