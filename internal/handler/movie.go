package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/repository"
)

// MovieHandler serves the movie catalog.  Stock counts are visible on
// reads but never writable through this handler; only checkouts and
// returns move stock.
type MovieHandler struct {
	Movies  *repository.MovieRepo
	Rentals *repository.RentalRepo
}

func NewMovieHandler(m *repository.MovieRepo, r *repository.RentalRepo) *MovieHandler {
	return &MovieHandler{Movies: m, Rentals: r}
}

type movieCreateReq struct {
	Title                string `json:"title" validate:"required,min=1,max=255"`
	GenreID              uint64 `json:"genre_id" validate:"required,gt=0"`
	DailyRentalRateCents uint32 `json:"daily_rental_rate_cents" validate:"gt=0"`
	NumberInStock        uint32 `json:"number_in_stock"`
}

type movieUpdateReq struct {
	Title                string `json:"title" validate:"required,min=1,max=255"`
	GenreID              uint64 `json:"genre_id" validate:"required,gt=0"`
	DailyRentalRateCents uint32 `json:"daily_rental_rate_cents" validate:"gt=0"`
}

// List handles GET /v1/movies.
func (h *MovieHandler) List(c echo.Context) error {
	items, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /v1/movies.  The initial stock count is the only
// moment stock can be set directly.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.Movies.Create(c.Request().Context(), req.Title, req.GenreID, req.DailyRentalRateCents, req.NumberInStock)
	if err != nil {
		if err == repository.ErrGenreNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre_id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusCreated, echo.Map{"id": id})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /v1/movies/:id.  A rate change only affects future
// checkouts; open rentals keep the rate snapshotted at their checkout.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Movies.Update(c.Request().Context(), id, req.Title, req.GenreID, req.DailyRentalRateCents); err != nil {
		switch err {
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case repository.ErrGenreNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre_id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"id": id})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/movies/:id.  Refused while copies are out
// with customers; returned rentals keep their snapshot and survive.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	open, err := h.Rentals.CountOpenByMovie(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if open > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "movie has open rentals"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
