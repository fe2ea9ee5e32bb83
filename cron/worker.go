package cron

import (
	"context"
	"fmt"
	"time"

	"vehicleservice/config"
	"vehicleservice/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// OrphanCleaner is the part of the workload allocator the worker drives.
type OrphanCleaner interface {
	CleanupOrphanedAssignments(ctx context.Context) (int, error)
}

// RedisOpt is the asynq connection for the job queue DB.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCleanupWorker runs the async worker and the periodic orphan sweep in background.
func InitCleanupWorker(cleaner OrphanCleaner, logger *zap.Logger) {
	redisOpts := RedisOpt()

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCleanupOrphanedAssignments, HandleCleanupTask(cleaner, logger))

	go monitorRedisConnection(logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("starting cleanup worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("cleanup worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("cleanup worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	spec := config.AppConfig.OrphanCleanupCron
	if spec == "" {
		return
	}
	if err := startScheduler(redisOpts, spec, logger); err != nil {
		logger.Error("orphan cleanup schedule not started", zap.String("cron", spec), zap.Error(err))
	}
}

func startScheduler(redisOpts asynq.RedisClientOpt, spec string, logger *zap.Logger) error {
	task, opts, err := tasks.NewCleanupTask(tasks.CleanupPayload{RequestedBy: "scheduler"})
	if err != nil {
		return err
	}
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: config.Location()})
	entryID, err := scheduler.Register(spec, task, opts...)
	if err != nil {
		return fmt.Errorf("register %q: %w", spec, err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("orphan cleanup scheduler stopped", zap.Error(err))
		}
	}()
	logger.Info("orphan cleanup scheduled", zap.String("cron", spec), zap.String("entry", entryID))
	return nil
}

// HandleCleanupTask sweeps orphaned assignments.
func HandleCleanupTask(cleaner OrphanCleaner, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseCleanupPayload(task.Payload())
		if err != nil {
			logger.Error("invalid cleanup payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		removed, err := cleaner.CleanupOrphanedAssignments(ctx)
		if err != nil {
			logger.Error("orphan cleanup failed", zap.String("requestedBy", p.RequestedBy), zap.Error(err))
			return err
		}
		logger.Info("orphan cleanup finished", zap.String("requestedBy", p.RequestedBy), zap.Int("removed", removed))
		return nil
	}
}

// EnqueueCleanup queues a one-off sweep.
func EnqueueCleanup(ctx context.Context, client *asynq.Client, requestedBy string) (*asynq.TaskInfo, error) {
	task, opts, err := tasks.NewCleanupTask(tasks.CleanupPayload{RequestedBy: requestedBy, RequestedAt: time.Now()})
	if err != nil {
		return nil, err
	}
	return client.EnqueueContext(ctx, task, opts...)
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("job queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
