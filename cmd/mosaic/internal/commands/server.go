package commands

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/cors"

	"github.com/mosaicdev/mosaic/internal/auth"
	"github.com/mosaicdev/mosaic/internal/logger"
	"github.com/mosaicdev/mosaic/internal/provision"
	"github.com/mosaicdev/mosaic/internal/server"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"MOSAIC_LISTEN"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"https://localhost" env:"MOSAIC_CORS_ORIGINS"`

	// Token configuration
	TokenSecret string `help:"secret key for HMAC signing of session tokens" env:"MOSAIC_TOKEN_SECRET"`

	Store StoreFlags `embed:""`
}

func (c *ServerCmd) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("token secret is required (--token-secret or MOSAIC_TOKEN_SECRET)")
	}
	return nil
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	runner, cleanup, err := c.Store.buildRunner(ctx, log)
	if err != nil {
		return err
	}
	defer cleanup()

	authority, err := auth.NewAuthority([]byte(c.TokenSecret))
	if err != nil {
		return err
	}

	svc := provision.NewService(runner)
	srv := server.New(svc, authority)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   c.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
	})

	handler := logger.RequestLogger(log)(corsMiddleware.Handler(srv.Handler()))

	log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
	return configureHTTPServer(c.Listen, handler).ListenAndServe()
}
