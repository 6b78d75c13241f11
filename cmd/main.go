// Package main is the entry point for the storefront cart service.
//
// @title           Storefront Cart API
// @version         1.0.0
// @description     Cart gateway for the storefront. Reads are served from a per-user cache and
// @description     writes are applied optimistically, then confirmed or rolled back by the cart backend.
//
// @contact.name   API Support
// @contact.email  support@example.com
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer access token. Required if authentication is enabled.
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for trusted callers that send X-User-ID.
//
// @tag.name        Cart
// @tag.description Cart of the signed-in user
//
// @tag.name        Session
// @tag.description Session lifecycle
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/storefront-cart/docs" // swagger docs

	"github.com/guttosm/storefront-cart/config"
	"github.com/guttosm/storefront-cart/internal/app"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	ctx := context.Background()

	application, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	runErr := server.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	application.Close(closeCtx)
	cancel()

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
