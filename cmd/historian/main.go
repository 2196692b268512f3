// cmd/historian/main.go is an asynchronous historian service that pops
// finished-match records from a Redis queue and persists them to PostgreSQL.
// Live play never waits on Postgres; this process is the only writer.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/cache"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/database"
)

// HistorianService encapsulates the Redis + DB logic for draining the
// match-result queue into long-term storage.
type HistorianService struct {
	redisClient *redis.Client
	batchSize   int
	flushDelay  time.Duration

	batchMu  sync.Mutex
	batch    []cache.MatchResultRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorianService constructs a HistorianService from environment
// variables or defaults.
func NewHistorianService() *HistorianService {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &HistorianService{
		redisClient: rdb,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]cache.MatchResultRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to the database and starts the queue-drain loop. It blocks
// until Stop is called.
func (hs *HistorianService) Run() {
	database.ConnectDB()

	go hs.readRedisLoop()

	log.Println("tarneeb-historian service started.")
	<-hs.ctx.Done()
	hs.flushBatchToDB()
	log.Println("tarneeb-historian shutting down.")
}

// readRedisLoop continuously uses BLPop to retrieve match results from the
// Redis queue, accumulating them into a batch that flushes on size or time.
func (hs *HistorianService) readRedisLoop() {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("HISTORIAN_QUEUE_NAME", cache.DefaultResultQueueName)

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			hs.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := hs.redisClient.BLPop(hs.ctx, 3*time.Second, queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				// No message popped.
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			var rec cache.MatchResultRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("invalid match result record: %v\n", err)
				continue
			}
			if rec.RoomID == "" {
				log.Printf("skipping match result with empty room id\n")
				continue
			}

			hs.appendToBatch(rec)
		}
	}
}

// appendToBatch adds a record to the in-memory batch and flushes if the
// threshold is reached.
func (hs *HistorianService) appendToBatch(rec cache.MatchResultRecord) {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	hs.batch = append(hs.batch, rec)
	if len(hs.batch) >= hs.batchSize {
		hs.flushBatchLocked()
	}
}

// flushBatchToDB flushes the current batch to the database.
func (hs *HistorianService) flushBatchToDB() {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()
	hs.flushBatchLocked()
}

// flushBatchLocked writes every batched record. Caller holds batchMu.
// A failed record is logged and dropped; the upsert makes a replay of the
// same match harmless if the operator re-queues it.
func (hs *HistorianService) flushBatchLocked() {
	if len(hs.batch) == 0 {
		return
	}
	batchCopy := make([]cache.MatchResultRecord, len(hs.batch))
	copy(batchCopy, hs.batch)
	hs.batch = hs.batch[:0]

	ctx := context.Background()
	flushed := 0
	for _, rec := range batchCopy {
		if err := database.RecordMatchResult(ctx, rec); err != nil {
			log.Printf("[ERROR] record match %s: %v\n", rec.RoomID, err)
			continue
		}
		flushed++
	}
	log.Printf("Flushed %d of %d match results to DB.\n", flushed, len(batchCopy))
}

// Stop gracefully stops the historian service.
func (hs *HistorianService) Stop() {
	hs.cancelFn()
}

// main is the entrypoint.
func main() {
	hs := NewHistorianService()
	go hs.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	hs.Stop()
	log.Println("Historian shutdown complete.")
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer value from an environment variable or
// returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}
