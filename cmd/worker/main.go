package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/support-service/internal/config"
	"github.com/spec-kit/support-service/internal/events"
	"github.com/spec-kit/support-service/internal/observability"
	"github.com/spec-kit/support-service/internal/persistence"
	"github.com/spec-kit/support-service/internal/queue"
	"github.com/spec-kit/support-service/internal/repository"
	"github.com/spec-kit/support-service/internal/service"
	"github.com/spec-kit/support-service/internal/triage"
	"github.com/spec-kit/support-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	publisher := events.NewKafkaPublisher(cfg.Kafka)
	defer publisher.Close()

	ticketRepo := repository.NewTicketRepository(pg.PoolHandle())
	tasks := queue.NewRedisQueue(redis.Client, cfg.Queue.Key, cfg.Queue.DeadLetterKey)

	pools := triage.DefaultPools()
	if cfg.Assignment.PoolOverrides != "" {
		pools = pools.ApplyOverrides(cfg.Assignment.PoolOverrides)
	}

	assignment := service.NewAssignmentService(ticketRepo, pools, logger)
	monitor := service.NewSLAMonitor(ticketRepo, publisher, logger)

	consumer := worker.NewConsumer(tasks, assignment, monitor, cfg.Queue, logger)
	sweeper := worker.NewSLASweeper(monitor, cfg.SLA.SweepInterval(), logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	logger.Info("worker started",
		zap.String("queue", cfg.Queue.Key),
		zap.Duration("sweep_interval", cfg.SLA.SweepInterval()))

	waitForShutdown(logger)
	cancel()
	wg.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
