// Package jwt provides JSON Web Token utilities for the Tourbook API.
//
// The jwt package wraps github.com/golang-jwt/jwt/v5 for HS256 token
// generation, validation, and claims extraction.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    Secret:         "secret-key",
//	    Issuer:         "tourbook-api",
//	    ExpirationMins: 90 * 24 * 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: user.ID, Email: user.Email})
//
// # Token Validation
//
// Validate returns an error matching exactly one of ErrInvalidToken or
// ErrTokenExpired:
//
//	claims, err := service.Validate(tokenString)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // ask the user to log in again
//	}
//	issuedAt := claims.IssuedAtUnix()
package jwt
