package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/truthcheck/truthcheck/internal/analysis"
	"github.com/truthcheck/truthcheck/internal/config"
	"github.com/truthcheck/truthcheck/internal/db"
	"github.com/truthcheck/truthcheck/internal/detect"
	"github.com/truthcheck/truthcheck/internal/notify"
	"github.com/truthcheck/truthcheck/internal/store/redisstore"
)

type jobMsg struct {
	JobID string `json:"job_id"`
}

// nopPublisher satisfies the service's publisher dependency; the worker only
// consumes, it never enqueues.
type nopPublisher struct{}

func (nopPublisher) PublishJob(context.Context, string) error { return nil }

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	reg := detect.NewRegistry()
	reg.Register("mock", func() (detect.Detector, error) {
		return detect.NewMockDetector(cfg.AnalysisLatency), nil
	})

	guard := analysis.NewRedisGuard(rds, 10*cfg.AnalysisLatency)
	svc := analysis.NewService(
		analysis.NewRepo(gdb),
		reg,
		cfg.Detector,
		guard,
		nopPublisher{},
		notify.NewRepo(gdb),
	)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitQueue + ".dlq",
	})
	if err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started queue=%s concurrency=%d latency=%s", cfg.RabbitQueue, concurrency, cfg.AnalysisLatency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m jobMsg
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := svc.Run(ctx, m.JobID); err != nil {
					log.Printf("worker=%d job=%s failed cost=%s err=%v", workerID, m.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}
				log.Printf("worker=%d job=%s done cost=%s", workerID, m.JobID, time.Since(start))

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}
