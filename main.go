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

	"github.com/zlnvch/blogverse/api"
	"github.com/zlnvch/blogverse/api/rest"
	"github.com/zlnvch/blogverse/config"
	"github.com/zlnvch/blogverse/mq/sqsmq"
	"github.com/zlnvch/blogverse/pubsub/redis"
	"github.com/zlnvch/blogverse/service"
	"github.com/zlnvch/blogverse/store/dynamo"
	"github.com/zlnvch/blogverse/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	blogverseStore, err := dynamo.NewDynamoBlogverseStore(ctx, cfg.DevMode, cfg.DynamoDBEndpoint, cfg.UsersTable, cfg.BlogsTable, cfg.CreateTables)
	if err != nil {
		log.Fatalf("Failed to create dynamodb store: %v", err)
	}

	repairQueue, err := sqsmq.NewSQSMessageQueue(ctx, cfg.DevMode, cfg.SQSEndpoint, cfg.RepairQueue)
	if err != nil {
		log.Fatalf("Failed to create SQS MQ: %v", err)
	}

	blogEvents, err := redis.NewRedisPubSub(ctx, cfg.DevMode, cfg.RedisEndpoint)
	if err != nil {
		log.Fatalf("Failed to create redis pubsub: %v", err)
	}
	defer blogEvents.Close()

	svc, err := service.NewService(blogverseStore, blogEvents, repairQueue, service.NewBcryptHasher(cfg.BcryptCost))
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	repairer := worker.NewBacklinkRepairer(repairQueue, svc)
	go repairer.Run(shutdownCtx)

	authLimiter := rest.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst)
	blogverseApi, err := api.NewBlogverseAPI(svc, blogEvents, authLimiter, cfg.AllowedOrigin, shutdownCtx)
	if err != nil {
		log.Fatalf("Failed to create blogverse api: %v", err)
	}

	mux := http.NewServeMux()
	blogverseApi.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.HostPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on host port: %s\n", cfg.HostPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	log.Printf("Server shutting down...")

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(closeCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
