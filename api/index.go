package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"storefront/app"
	"storefront/config"
	"storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	application *app.App
	initErr     error
	once        sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}

		log := config.NewLogger(cfg.LogLevel, cfg.AppEnv)
		application, initErr = app.New(context.Background(), cfg, log)
	})
}

// Handler is the serverless entry point. The application is built once per
// instance and reused across invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		logrus.WithError(initErr).Error("Application failed to initialize")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Success: false,
			Message: "Service unavailable",
		})
		return
	}
	application.Router.ServeHTTP(w, r)
}
