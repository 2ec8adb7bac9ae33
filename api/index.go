package handler

import (
	"net/http"

	"github.com/Team-NaBang/Bang-Backend/pkg/app"
	"github.com/Team-NaBang/Bang-Backend/pkg/config"
	"github.com/Team-NaBang/Bang-Backend/pkg/logger"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// Note: On Vercel, a local sqlite file is ephemeral unless DATABASE_URL points at libsql or postgres
	a, err := app.New(cfg, log)
	if err != nil {
		panic(err)
	}
	mux = a.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
