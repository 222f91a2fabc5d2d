// Command scheduler-service is the composition root: it loads
// configuration, wires the storage/GIS/queue collaborators, and runs a
// pool of pkg/worker.Worker instances against the durable task queue
// alongside a gRPC health listener. The scheduler's own RPC wire framing
// (spec.md §1's Non-goal: query_flight/create_itinerary_async/etc. over
// gRPC) is not bound here — only the ambient health-check surface is,
// since a deployed worker process still needs a liveness/readiness probe
// regardless of that Non-goal. Grounded on kubernaut's cmd/*-service
// pattern of a long-running process built around Initialize-then-run,
// reshaped around this module's own Dependencies/Run shape
// (pkg/worker.Worker) rather than an HTTP mux.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/aetheric-oss/svc-scheduler-sub000/internal/config"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/metrics"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/obslog"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/geoclient"
	geomock "github.com/aetheric-oss/svc-scheduler-sub000/pkg/geoclient/mock"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/kv"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/scheduler"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
	storagemock "github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient/mock"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/taskqueue"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/worker"
)

// metricsAddr is where the Prometheus /metrics endpoint listens.
const metricsAddr = ":9090"

// readinessPollInterval is how often the health server's serving status
// is refreshed from ClientCtx.IsReady.
const readinessPollInterval = 5 * time.Second

// workerPoolSize is the number of worker.Worker instances run
// concurrently against the shared queue; overridable via
// SCHEDULER_WORKER_POOL_SIZE for local tuning.
const workerPoolSize = 4

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logOpts := obslog.Options{Development: cfg.LogConfigPath == ""}
	if cfg.LogConfigPath != "" {
		fileOpts, loadErr := obslog.LoadOptions(cfg.LogConfigPath, logOpts)
		if loadErr != nil {
			os.Stderr.WriteString("invalid log config: " + loadErr.Error() + "\n")
			os.Exit(1)
		}
		logOpts = fileOpts
	}
	logger := obslog.NewLogger(logOpts)
	logger.Info("starting scheduler-service", "redisURL", cfg.RedisURL)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error(err, "invalid redis url")
		os.Exit(1)
	}
	redisOpts.PoolSize = cfg.RedisPool.MaxSize
	redisOpts.MinIdleConns = cfg.RedisPool.MinIdle
	redisOpts.PoolTimeout = cfg.RedisPool.Timeout

	kvClient := kv.NewClient(redisOpts, logger)
	defer kvClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kvClient.EnsureConnection(ctx); err != nil {
		logger.Error(err, "redis unavailable at startup")
		os.Exit(1)
	}

	// Real storage-service and GIS-service transports are out of scope
	// (spec.md §1's gRPC wire-framing Non-goal): the in-memory mocks stand
	// in as the collaborator implementations until a real Transport is
	// wired, the same seam pkg/geoclient.Transport documents.
	store := storagemock.NewStore()
	storageClients := storageclient.WrapWithBreaker(store.Clients())
	geoTransport := geomock.NewTransport()
	geoClient := geoclient.NewClient(geoTransport)

	registry := metrics.NewRegistry()
	registry.MustRegister(prometheus.DefaultRegisterer)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if serveErr := http.ListenAndServe(metricsAddr, mux); serveErr != nil {
			logger.Error(serveErr, "metrics listener stopped")
		}
	}()

	queue := taskqueue.NewQueue(kvClient)
	queue.Metrics = registry

	oracle := pathing.NewClient(geoClient)
	oracle.Metrics = registry

	poolSize := workerPoolSize
	if v := os.Getenv("SCHEDULER_WORKER_POOL_SIZE"); v != "" {
		if n, parseErr := strconv.Atoi(v); parseErr == nil && n > 0 {
			poolSize = n
		}
	}

	deps := worker.Dependencies{
		Queue:   queue,
		Storage: storageClients,
		Oracle:  oracle,
		Geo:     geoClient,
		Logger:  logger,
		Metrics: registry,
	}

	clientCtx := &scheduler.ClientCtx{
		Storage: storageClients,
		Oracle:  oracle,
		Queue:   queue,
		Logger:  logger,
		Metrics: registry,
	}

	var wg sync.WaitGroup
	for i := 0; i < poolSize; i++ {
		w := worker.New(deps)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.DockerPortGRPC))
	if err != nil {
		logger.Error(err, "failed to bind health listener")
		os.Exit(1)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if serveErr := grpcServer.Serve(listener); serveErr != nil {
			logger.Error(serveErr, "health listener stopped")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(readinessPollInterval)
		defer ticker.Stop()
		for {
			status := healthpb.HealthCheckResponse_NOT_SERVING
			if clientCtx.IsReady() {
				status = healthpb.HealthCheckResponse_SERVING
			}
			healthServer.SetServingStatus("", status)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	logger.Info("scheduler-service ready", "workerPoolSize", poolSize, "healthPort", cfg.DockerPortGRPC)
	<-ctx.Done()
	logger.Info("shutting down scheduler-service")
	grpcServer.GracefulStop()
	wg.Wait()
}
