package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/truthcheck/truthcheck/internal/config"
	"github.com/truthcheck/truthcheck/internal/db"
	"github.com/truthcheck/truthcheck/internal/httpapi"
	"github.com/truthcheck/truthcheck/internal/store/rabbitmq"
	"github.com/truthcheck/truthcheck/internal/store/redisstore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rds.Ping(ctx); err != nil {
			log.Printf("redis ping failed addr=%s err=%v", cfg.RedisAddr, err)
		}
		cancel()
	}

	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbit connect: %v", err)
	}
	defer pub.Close()

	router := httpapi.NewRouter(gdb, cfg, rds, pub)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("server listening addr=%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
