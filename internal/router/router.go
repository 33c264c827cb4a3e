package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/parking-slot-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/parking-slot-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to issue a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body or a bearer token in
	// the Authorization header, so it does not sit behind the JWT middleware.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Both roles may call the identity endpoint; role-specific surfaces
	// apply their own RequireRole below.
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse and callback endpoints on
// the provided Echo instance.  The browse handlers return sanitized data for
// lots and slots; the payment callback authenticates itself through its HMAC
// signature.  The optional middlewares (rate limiting, response caching) are
// applied to the browse routes only.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cust *handler.CustomerHandler, mw ...echo.MiddlewareFunc) {
	// Expose the list of all parking lots
	e.GET("/v1/lots", p.GetLots, mw...)
	// List the slots of a specific lot
	e.GET("/v1/lots/:id/slots", p.GetLotSlots, mw...)
	// List every slot currently open for reservation
	e.GET("/v1/slots/available", p.GetAvailableSlots, mw...)

	// Payment gateway confirmation callback.  Never cached or rate limited;
	// dropping a callback would strand a paid reservation in pending.
	e.POST("/v1/payments/verify", cust.ConfirmPayment)
}
