package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pointsgate/internal/alternate"
	"pointsgate/internal/llm"
	"pointsgate/internal/platform/config"
	"pointsgate/internal/platform/httpserver"
	"pointsgate/internal/platform/logger"
	"pointsgate/internal/platform/metrics"
	platformredis "pointsgate/internal/platform/redis"
	"pointsgate/internal/rulecheck"
	rulecheckmetrics "pointsgate/internal/rulecheck/metrics"
	scorehandler "pointsgate/internal/score/handler"
	"pointsgate/internal/selector"
	selectormetrics "pointsgate/internal/selector/metrics"
	audit "pointsgate/pkg/platform/audit"
	auditkafka "pointsgate/pkg/platform/audit/store/kafka"
	auditmemory "pointsgate/pkg/platform/audit/store/memory"
	auditworker "pointsgate/pkg/platform/audit/worker"
	"pointsgate/pkg/platform/httputil"
	"pointsgate/pkg/platform/middleware/metadata"
	"pointsgate/pkg/platform/middleware/requestid"
	"pointsgate/pkg/platform/middleware/requesttime"
)

// main wires dependencies, exposes the HTTP router, and keeps the server
// lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// External capability: extraction and alternate computation are both
	// unavailable without an API key. The selector falls back to the
	// deterministic engine in that case.
	llmClient := llm.NewClient(cfg.LLM)
	var (
		extractor rulecheck.Extractor
		altScorer alternate.Scorer = (*alternate.Client)(nil)
	)
	if llmClient != nil {
		extractor = rulecheck.NewLLMExtractor(llmClient)
		altScorer = alternate.NewClient(llmClient)
	} else {
		log.Warn("no LLM API key configured, rule extraction and alternate computation disabled")
	}

	fetcher := rulecheck.NewFetcher(cfg.RuleCheck.SourceURLs, &http.Client{Timeout: cfg.RuleCheck.FetchTimeout})
	monitor := rulecheck.NewMonitor(fetcher, extractor, log, cfg.RuleCheck.FetchTimeout,
		rulecheck.WithMetrics(rulecheckmetrics.New()))

	// Verdict cache: Redis when configured, in-process otherwise.
	var store selector.VerdictStore = selector.NewMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		store = selector.NewRedisStore(redisClient.Client, cfg.RuleCheck.CacheTTL)
		defer redisClient.Close()
		log.Info("verdict cache backed by redis")
	}

	sel := selector.New(monitor, altScorer, store, log,
		selector.WithCacheTTL(cfg.RuleCheck.CacheTTL),
		selector.WithMetrics(selectormetrics.New()),
	)

	// Audit pipeline: in-memory sink always, Kafka when brokers are set.
	recorder := audit.NewRecorder(log)
	auditStores := []audit.Store{auditmemory.NewInMemoryStore()}
	if len(cfg.Audit.Brokers) > 0 {
		kafkaStore, err := auditkafka.New(cfg.Audit)
		if err != nil {
			log.Error("kafka audit store unavailable", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStores = append(auditStores, kafkaStore)
		log.Info("audit events published to kafka", "topic", cfg.Audit.Topic)
	}
	go func() {
		if err := auditworker.NewWorker(recorder.Inbox(), log, auditStores...).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	handler := scorehandler.New(sel, log, metrics.New(), recorder)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	handler.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(req.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httpserver.New(cfg.Addr, r)

	go func() {
		log.Info("starting pointsgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
