package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"classtrack/internal/analytics"
	"classtrack/internal/classroom"
	"classtrack/internal/config"
	"classtrack/internal/queue"
	"classtrack/internal/store"
)

// Worker consumes accepted-claim messages and keeps the per-class
// analytics rollup cache warm. Analytics reads stay correct without it;
// the cache just goes cold.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classtrack:rollups")
	}

	classRepo := classroom.NewRepository(db.Client)
	stats := analytics.NewService(analytics.NewRepository(db.Client), classRepo, redisClient.Client, cfg.AnalyticsTTL)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeAttendanceMarked {
			continue
		}

		classID := string(msg.Body)
		sum, err := stats.RefreshClass(ctx, classID)
		if err != nil {
			log.Printf("rollup refresh failed for class %s: %v", classID, err)
			continue
		}
		log.Printf("class %s rollup: %d/%d sessions x students marked (%.2f%%)",
			classID, sum.AttendanceMarked, sum.TotalSessions*sum.TotalStudents, sum.AttendancePercentage)
	}

	log.Println("worker stopped")
}
