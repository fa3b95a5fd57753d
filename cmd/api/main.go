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

	"github.com/GoSim-25-26J-441/medinav-backend/config"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
)

const serviceName = "medinav-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.SetLevel(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	var stores bootstrap.Stores

	if cfg.Redis.Enabled() {
		client, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Printf("redis unavailable, using simulated crowd data: %v", err)
		} else {
			stores.Redis = client
			defer client.Close()
		}
	}

	if cfg.Database.Enabled {
		db, err := bootstrap.OpenDB(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		stores.DB = db
		defer db.Close()
	}

	services, err := bootstrap.NewServices(cfg, stores)
	if err != nil {
		log.Fatalf("services: %v", err)
	}

	if sched := services.Scheduler(cfg.Crowd.RefreshCron); sched != nil {
		if err := sched.Start(); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		defer sched.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Services:       services,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("%s %s listening on :%s (env=%s)", serviceName, cfg.App.Version, cfg.Server.Port, cfg.App.Environment)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case sig := <-shutdown:
		log.Printf("received %s, shutting down", sig)

		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
