package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/handler"
	"github.com/iliyamo/movie-rental-service/internal/middleware"
)

// RegisterRentals registers the desk workflow: customer roster,
// checkout, history and returns.  Everything here is staff-facing, so
// the whole group requires a CLERK or ADMIN login.  Customer deletion
// is the one admin-only operation.
func RegisterRentals(e *echo.Echo, cu *handler.CustomerHandler, r *handler.RentalHandler, ret *handler.ReturnHandler, jwtSecret string) {
	desk := e.Group("/v1")
	desk.Use(middleware.JWTAuth(jwtSecret))
	desk.Use(middleware.RequireRole("ADMIN", "CLERK"))

	desk.GET("/customers", cu.List)
	desk.GET("/customers/:id", cu.Get)
	desk.POST("/customers", cu.Create)
	desk.PUT("/customers/:id", cu.Update)
	desk.GET("/customers/:id/rentals", r.ListByCustomer)

	desk.POST("/rentals", r.Checkout)
	desk.GET("/rentals/:id", r.Get)
	desk.POST("/returns", ret.Process)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.DELETE("/customers/:id", cu.Delete)
}
