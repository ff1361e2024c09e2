package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	api "github.com/ifrs/cursos-estude-api/pkg/api_client"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/cache"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/config"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/handler"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/helper/fetch"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/jobs"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/metrics"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/services"
	"github.com/ifrs/cursos-estude-api/pkg/api_client/store"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func init() {
	tonic.SetErrorHook(api.ProblemErrorHook)
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	blocks, err := store.Open(cfg.BlockStore, cfg.BlockStorePath)
	if err != nil {
		log.WithError(err).Fatal("cannot open block store")
	}
	defer blocks.Close()

	// Wire services and controllers
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	fetcher := fetch.NewHTTPFetcher(cfg.FetchTimeout)
	courseCache := cache.New[[]models.Course](nil)
	cursosSvc := services.NewCursosService(fetcher, courseCache, cfg.CacheTTL, log, m)
	validatorSvc := services.NewValidatorService(fetcher, log, m)
	vocabularySvc := services.NewVocabularyService(fetcher, log, m)
	sessions := services.NewWorkflowManager(validatorSvc, vocabularySvc, cfg.SessionTTL, nil, log, m)

	opts := api.RouterOptions{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	if cfg.RenderRate > 0 {
		opts.RenderLimiter = rate.NewLimiter(rate.Limit(cfg.RenderRate), cfg.RenderBurst)
	}
	router := api.NewRouter(cfg.APIVersion,
		handler.NewCursosController(cursosSvc, validatorSvc, blocks),
		handler.NewConfigController(sessions, blocks, log),
		opts,
	)

	_, err = jobs.SchedulePurge(ctx, cfg.PurgeSchedule, log, map[string]jobs.Purger{
		"cursos":   courseCache,
		"sessions": sessions,
	})
	if err != nil {
		log.WithError(err).Fatal("cannot schedule purge job")
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{
		"addr":      cfg.Addr,
		"cache_ttl": cfg.CacheTTL,
		"debug":     cfg.Debug,
		"store":     cfg.BlockStore,
	}).Info("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server stopped")
	}
}
