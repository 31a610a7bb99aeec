package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/prices"
)

// PriceService resolves price batches and conversions
type PriceService interface {
	interfaces.PriceResolver
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (prices.Conversion, error)
}

// HealthChecker reports the state of the upstream provider
type HealthChecker interface {
	Name() string
	Healthy() bool
}

type Server struct {
	port          string
	pricesService PriceService
	coinsService  interfaces.CoinListResolver
	trendService  interfaces.TrendResolver
	health        HealthChecker
	limiter       *ClientLimiter
	server        *http.Server
}

func New(cfg config.ServerConfig, pricesService PriceService, coinsService interfaces.CoinListResolver, trendService interfaces.TrendResolver, health HealthChecker) *Server {
	return &Server{
		port:          cfg.Port,
		pricesService: pricesService,
		coinsService:  coinsService,
		trendService:  trendService,
		health:        health,
		limiter:       NewClientLimiter(cfg.RateLimitPerMinute, cfg.ClientIdleTTL),
	}
}

// Handler builds the router with every endpoint and middleware attached
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, latencyMiddleware)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(s.rateLimitMiddleware)
	apiRouter.HandleFunc("/convert", s.handleConvert).Methods(http.MethodGet)
	apiRouter.HandleFunc("/prices", s.handlePrices).Methods(http.MethodGet)
	apiRouter.HandleFunc("/coins", s.handleCoins).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trend", s.handleTrend).Methods(http.MethodGet)
	apiRouter.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting at http://localhost:%s", s.port)
	log.Println("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}
}
