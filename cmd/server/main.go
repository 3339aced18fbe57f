package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fodinha-game/internal/config"
	"fodinha-game/internal/database"
	"fodinha-game/internal/game"
	"fodinha-game/internal/server"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load(log)
	log.SetLevel(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"addr":   cfg.Addr,
		"seats":  cfg.Seats,
		"lives":  cfg.StartingLives,
		"bots":   cfg.BotLevel,
		"driver": cfg.DatabaseDriver,
	}).Info("Starting Fodinha server...")

	var store server.ResultStore
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Warn("Results database unavailable, match history disabled.")
	} else {
		defer db.Close()
		store = db
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(server.Settings{
		Seats:    cfg.Seats,
		Lives:    cfg.StartingLives,
		BotLevel: cfg.BotLevel,
		Pacing: game.Pacing{
			BotDelay:    cfg.BotDelay,
			SettleDelay: cfg.SettleDelay,
		},
	}, store, log)
	go hub.Run(ctx)

	staticDir := cfg.StaticDir
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		log.WithField("dir", staticDir).Info("No static directory, serving the API only.")
		staticDir = ""
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(hub, store, staticDir),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Shutdown did not complete cleanly.")
		}
	}()

	log.Infof("Listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Server failed.")
	}
	log.Info("Server stopped.")
}
