package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/handler"
	"github.com/iliyamo/movie-rental-service/internal/middleware"
)

// RegisterCatalog registers the genre and movie catalog.  Reads are
// public and may sit behind the Redis response cache; writes require
// an ADMIN login.
func RegisterCatalog(e *echo.Echo, g *handler.GenreHandler, m *handler.MovieHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	pub := e.Group("/v1")
	if cache != nil {
		pub.Use(cache)
	}
	pub.GET("/genres", g.List)
	pub.GET("/genres/:id", g.Get)
	pub.GET("/movies", m.List)
	pub.GET("/movies/:id", m.Get)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/genres", g.Create)
	admin.PUT("/genres/:id", g.Update)
	admin.DELETE("/genres/:id", g.Delete)
	admin.POST("/movies", m.Create)
	admin.PUT("/movies/:id", m.Update)
	admin.DELETE("/movies/:id", m.Delete)
}
