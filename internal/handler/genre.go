package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/repository"
)

// GenreHandler serves the genre catalog.  Reads are public; writes sit
// behind the ADMIN role in the router.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(g *repository.GenreRepo) *GenreHandler {
	return &GenreHandler{Genres: g}
}

type genreReq struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// List handles GET /v1/genres.
func (h *GenreHandler) List(c echo.Context) error {
	items, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGenreNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, g)
}

// Create handles POST /v1/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.Genres.Create(c.Request().Context(), req.Name)
	if err != nil {
		if err == repository.ErrGenreExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
	}
	return c.JSON(http.StatusCreated, g)
}

// Update handles PUT /v1/genres/:id.
func (h *GenreHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Genres.Update(c.Request().Context(), id, req.Name); err != nil {
		switch err {
		case repository.ErrGenreNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		case repository.ErrGenreExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"id": id, "name": req.Name})
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /v1/genres/:id.  A genre still referenced by
// movies is refused rather than cascaded.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrGenreNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre has movies"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
