// Package config manages application configuration for the Tourbook API.
//
// Configuration is read from environment variables through env struct tags
// and then checked as a whole:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// Validate reports every problem at once, joined with errors.Join.
//
// # Configuration Groups
//
//   - ServerConfig: port, environment, timeouts, request body limit
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: HS256 secret, token lifetime, cookie lifetime
//   - AuthConfig: bcrypt cost and password reset token lifetime
//   - LogConfig: slog level
//
// # Environment Variables
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	SERVER_ENV           - development, production or test
//	DB_HOST, DB_PORT     - SurrealDB address
//	DB_NAMESPACE         - SurrealDB namespace (default: tourbook)
//	JWT_SECRET           - signing secret, required
//	JWT_EXPIRATION_MINS  - token lifetime (default: 90 days)
//	AUTH_BCRYPT_COST     - bcrypt cost (default: 12)
//	AUTH_RESET_TOKEN_TTL - reset token lifetime (default: 10m)
//	LOG_LEVEL            - debug, info, warn or error
package config
