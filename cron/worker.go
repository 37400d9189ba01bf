package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"soothe/config"
	"soothe/models"
	"soothe/services/notification"
	"soothe/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitDispatchWorker runs the notification queue worker in background.
func InitDispatchWorker(dispatcher *notification.DefaultDispatcher) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDispatchSend, handleDispatchTask(dispatcher))

	go monitorRedisConnection()

	go func() {
		log.Println("[DispatchWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DispatchWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DispatchWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleDispatchTask(dispatcher *notification.DefaultDispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.DispatchPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[DispatchHandler] invalid payload: %v", err)
			return err
		}

		var err error
		switch p.Target {
		case models.DispatchUser:
			err = dispatcher.SendToUser(ctx, p.TargetID, p.Payload, p.Pref)
		case models.DispatchGuest:
			err = dispatcher.SendToGuest(ctx, p.Contact, p.Payload, p.Pref)
		case models.DispatchProfessional:
			err = dispatcher.SendToProfessional(ctx, p.TargetID, p.Payload)
		default:
			log.Printf("[DispatchHandler] unknown target type: %s", p.Target)
			return nil
		}

		if err != nil {
			log.Printf("[DispatchHandler] failed to send notification: %v", err)
		}
		return err
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[DispatchWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
