package app

import (
	"github.com/rs/zerolog/log"

	"github.com/guttosm/storefront-cart/config"
	"github.com/guttosm/storefront-cart/internal/service"
)

// InitializeTokenService returns the bearer token validator. It returns nil
// when auth is disabled or no signing key is configured, in which case
// trusted callers authenticate with API keys.
func InitializeTokenService(cfg config.AuthConfig) service.TokenService {
	if !cfg.Enabled || cfg.JWTSecretKey == "" {
		return nil
	}

	log.Info().Str("issuer", cfg.JWTIssuer).Msg("Bearer token authentication enabled")
	return service.NewTokenService(service.NewTokenConfigFromAuthConfig(cfg))
}
