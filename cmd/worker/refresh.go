package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/config"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/monitor"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
)

// runRefresh copies department_metrics from Postgres into Redis once
func runRefresh() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.App.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := bootstrap.OpenRedis(ctx, redisOptions(cfg))
	if err != nil {
		return err
	}
	defer client.Close()

	db, err := bootstrap.OpenDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := bootstrap.NewServices(cfg, bootstrap.Stores{Redis: client, DB: db})
	if err != nil {
		return err
	}

	n, err := monitor.NewRefresher(s.Department, s.Store, s.Metrics).Refresh(ctx)
	if err != nil {
		return err
	}
	log.Printf("refreshed %d department metrics", n)
	return nil
}

// runSimulate writes the simulated crowd model for one hour into Redis
func runSimulate(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hour := time.Now().Hour()
	if len(args) > 0 {
		h, err := strconv.Atoi(args[0])
		if err != nil || h < 0 || h > 23 {
			return fmt.Errorf("hour must be 0-23, got %q", args[0])
		}
		hour = h
	}

	client, err := bootstrap.OpenRedis(ctx, redisOptions(cfg))
	if err != nil {
		return err
	}
	defer client.Close()

	s, err := bootstrap.NewServices(cfg, bootstrap.Stores{Redis: client})
	if err != nil {
		return err
	}

	metrics := s.Simulated.MetricsAt(hour)
	if err := s.Store.SaveAll(ctx, metrics); err != nil {
		return err
	}
	log.Printf("wrote %d simulated metrics for hour %d", len(metrics), hour)
	return nil
}

func redisOptions(cfg *config.Config) bootstrap.RedisOptions {
	return bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}
