// @title         Rosterline API
// @version       0.1.0
// @description   Run reports and operator decisions for ingestion runs

package main

import (
	"context"
	"time"

	"rosterline/internal/platform/config"
	"rosterline/internal/platform/logger"
	phttp "rosterline/internal/platform/net/http"
	"rosterline/internal/platform/net/middleware"
	"rosterline/internal/platform/store"

	"rosterline/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "rosterline-api",
			Docs: store.DocConfig{
				Enabled:     true,
				Driver:      "pg",
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:    chURL != "",
				URL:        chURL,
				ClientName: "rosterline",
				ClientTag:  "api",
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	r := srv.Router()
	r.Use(middleware.Defaults()...)
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: []string{apiCfg.MayString("CORS_ORIGIN", "*")},
	}))
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: time.Second}))
	r.Use(middleware.RecoverJSON)

	api.Mount(r, api.Options{
		Config:        apiCfg,
		Store:         st,
		Logger:        l,
		EnableSwagger: apiCfg.MayBool("SWAGGER", true),
	})

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
