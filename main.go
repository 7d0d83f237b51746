package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/app"
	"storefront/config"
	_ "storefront/docs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:generate swag init -g main.go -o docs

// @title						Storefront API
// @version					1.0
// @description				Online storefront: catalog, cart, checkout and back office.
// @host						localhost:8082
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := config.NewLogger(cfg.LogLevel, cfg.AppEnv)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to start application")
	}
	defer application.Close()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: application.Router,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port": cfg.Port,
			"env":  cfg.AppEnv,
		}).Info("Server starting")
		log.Infof("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
