// Package main wires the batching host, storage, fleet publisher, and the
// gRPC/HTTP surfaces into one running daemon.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/batchhost/batchhost/auth"
	"github.com/batchhost/batchhost/config"
	"github.com/batchhost/batchhost/fleet"
	"github.com/batchhost/batchhost/host"
	"github.com/batchhost/batchhost/internal/livestats"
	"github.com/batchhost/batchhost/internal/metrics"
	"github.com/batchhost/batchhost/internal/migration"
	"github.com/batchhost/batchhost/internal/pool"
	"github.com/batchhost/batchhost/internal/server"
	"github.com/batchhost/batchhost/internal/telemetry"
	"github.com/batchhost/batchhost/ratelimit"
	"github.com/batchhost/batchhost/remote"
	"github.com/batchhost/batchhost/storage"
)

// byteHost is the concrete instantiation cmd/batchhostd serves: opaque
// per-item payloads, batched by IdentityBatcher (the claimed items are
// passed through as one [][]byte slice), handed to whatever HTTP backend
// the operator points us at.
type byteHost = host.Host[[]byte, [][]byte, struct{}, [][]byte, []byte]

// predictorFunc adapts a plain function to remote.Predictor.
type predictorFunc func(ctx context.Context, args []byte) ([]byte, error)

func (f predictorFunc) Predict(ctx context.Context, args []byte) ([]byte, error) {
	return f(ctx, args)
}

// Server owns every long-running component of the daemon and their
// shutdown order.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	backend *HTTPBackendPredictor
	h       *byteHost
	store   storage.Store
	limiter *ratelimit.Limiter

	grpcServer *remote.Server
	httpMgr    *server.Manager
	publisher  *fleet.Publisher
	telemetry  *telemetry.Providers
	metrics    *metrics.Collector
	pool       *pool.GoroutinePool
}

// NewServer wires every component from cfg but starts nothing.
func NewServer(cfg *config.Config, backendURL string, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	s.metrics = metrics.NewCollector("batchhost", logger)
	s.pool = pool.NewGoroutinePool(pool.DefaultGoroutinePoolConfig())

	store, err := storage.NewStore(context.Background(), cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	s.store = store

	s.backend = NewHTTPBackendPredictor(backendURL, 30*time.Second)

	auditObserver := storage.Observer(s.store, logger)
	observer := func(obs host.BatchObservation) {
		s.metrics.RecordBatch(observationOutcome(obs), obs.Size, obs.MergeDur, obs.PredictDur, obs.SplitDur)
		auditObserver(obs)
	}

	s.h = host.New[[]byte, [][]byte, struct{}, [][]byte, []byte](
		s.backend.AsPredictFunc(),
		host.IdentityBatcher[[]byte, []byte]{},
		cfg.Host.MaxBatchSize,
		host.WithLogger[[]byte, [][]byte, struct{}, [][]byte, []byte](logger),
		host.WithObserver[[]byte, [][]byte, struct{}, [][]byte, []byte](observer),
	)

	s.limiter = ratelimit.New(cfg.RateLimit)

	if cfg.Redis.Enabled {
		pub, err := fleet.NewPublisher(cfg.Redis, hostID(), s.h.Stats, logger)
		if err != nil {
			return nil, fmt.Errorf("init fleet publisher: %w", err)
		}
		s.publisher = pub
	}

	providers, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("telemetry init failed, continuing without it", zap.Error(err))
	} else {
		s.telemetry = providers
	}

	return s, nil
}

func hostID() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "batchhostd"
	}
	return hostname
}

// Start launches every component. It runs migrations first if storage is
// backed by a SQL driver with embedded migrations.
func (s *Server) Start(ctx context.Context) error {
	if err := s.runMigrations(); err != nil {
		s.logger.Warn("migrations skipped or failed", zap.Error(err))
	}

	if err := s.h.Start(); err != nil {
		return fmt.Errorf("start host: %w", err)
	}

	predict := ratelimit.Guard[[]byte, []byte](s.limiter, s.h.Predict)
	grpcSrv, err := remote.NewServer(s.cfg.Server.GRPCAddr, predictorFunc(predict), s.cfg.Server.TLSCertFile, s.cfg.Server.TLSKeyFile, s.logger)
	if err != nil {
		return fmt.Errorf("init gRPC server: %w", err)
	}
	s.grpcServer = grpcSrv

	if err := s.pool.Submit(ctx, func(_ context.Context) error {
		if err := s.grpcServer.Serve(); err != nil {
			s.logger.Error("gRPC server stopped", zap.Error(err))
			return err
		}
		return nil
	}); err != nil {
		return fmt.Errorf("schedule gRPC server: %w", err)
	}

	if err := s.startHTTPServer(predict); err != nil {
		return fmt.Errorf("start HTTP control server: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Start(ctx)
	}

	s.logger.Info("batchhostd started",
		zap.String("grpc_addr", s.grpcServer.Addr()),
		zap.String("http_addr", s.cfg.Server.HTTPAddr),
	)
	return nil
}

func (s *Server) startHTTPServer(predict func(ctx context.Context, args []byte) ([]byte, error)) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/stats", s.handleStats)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/predict", remote.NewHTTPFacade(predictorFunc(predict)))
	mux.Handle("/ws/stats", livestats.NewHub(s.h.Stats, time.Second, s.logger))

	skipAuth := []string{"/healthz", "/metrics", "/ws/stats"}
	handler := auth.JWTAuth(s.cfg.Auth, skipAuth, s.logger)(mux)

	srvCfg := server.Config{
		Addr:            s.cfg.Server.HTTPAddr,
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}
	s.httpMgr = server.NewManager(handler, srvCfg, s.logger)

	if s.cfg.Server.TLSCertFile != "" && s.cfg.Server.TLSKeyFile != "" {
		return s.httpMgr.StartTLS(s.cfg.Server.TLSCertFile, s.cfg.Server.TLSKeyFile)
	}
	return s.httpMgr.Start()
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.h.Stats())
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) runMigrations() error {
	if s.cfg.Storage.Driver == "" || s.cfg.Storage.Driver == "none" || s.cfg.Storage.Driver == "mongo" {
		return nil
	}
	migrator, err := migration.NewMigratorFromStorageConfig(s.cfg.Storage)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up(context.Background())
}

// Shutdown tears down every component in reverse startup order.
func (s *Server) Shutdown(ctx context.Context) {
	s.logger.Info("shutting down batchhostd")

	if s.publisher != nil {
		if err := s.publisher.Stop(); err != nil {
			s.logger.Error("fleet publisher shutdown error", zap.Error(err))
		}
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpMgr != nil {
		if err := s.httpMgr.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}
	stopCtx := ctx
	if s.cfg.Host.StopTimeout > 0 {
		var stopCancel context.CancelFunc
		stopCtx, stopCancel = context.WithTimeout(ctx, s.cfg.Host.StopTimeout)
		defer stopCancel()
	}
	if err := s.h.Stop(stopCtx); err != nil {
		s.logger.Error("host shutdown error", zap.Error(err))
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("storage shutdown error", zap.Error(err))
		}
	}
	if s.telemetry != nil {
		if err := s.telemetry.Shutdown(ctx); err != nil {
			s.logger.Error("telemetry shutdown error", zap.Error(err))
		}
	}
	s.pool.Close()

	s.logger.Info("batchhostd stopped")
}

func observationOutcome(obs host.BatchObservation) string {
	switch obs.Err.(type) {
	case nil:
		return "completed"
	case *host.BatchMergeError:
		return "merge_error"
	case *host.BatchSplitError, *host.BatchSplitArityError:
		return "split_error"
	default:
		return "predict_error"
	}
}
