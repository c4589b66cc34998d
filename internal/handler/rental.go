package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/model"
	"github.com/iliyamo/movie-rental-service/internal/repository"
)

// RentalHandler covers checkout and rental history.  Checkout is the
// mirror image of the return flow: it snapshots customer and movie
// fields into the rental row and takes one copy off the shelf, all in
// a single transaction.
type RentalHandler struct {
	Rentals   *repository.RentalRepo
	Movies    *repository.MovieRepo
	Customers *repository.CustomerRepo
	Stock     *repository.StockRepo
}

func NewRentalHandler(r *repository.RentalRepo, m *repository.MovieRepo, cu *repository.CustomerRepo, s *repository.StockRepo) *RentalHandler {
	return &RentalHandler{Rentals: r, Movies: m, Customers: cu, Stock: s}
}

type checkoutReq struct {
	CustomerID uint64 `json:"customer_id" validate:"required,gt=0"`
	MovieID    uint64 `json:"movie_id" validate:"required,gt=0"`
}

// Checkout handles POST /v1/rentals.  The transaction reads both
// parties, rejects a second open rental for the same pair, decrements
// stock with an in-place guard and inserts the rental row.  Commit
// makes all of it visible at once; any failure rolls everything back.
func (h *RentalHandler) Checkout(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	tx, err := h.Rentals.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cu, err := h.Customers.GetForCheckoutTx(ctx, tx, req.CustomerID)
	if err != nil {
		if err == repository.ErrCustomerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	m, err := h.Movies.GetForCheckoutTx(ctx, tx, req.MovieID)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}

	open, err := h.Rentals.HasOpenForPairTx(ctx, tx, req.CustomerID, req.MovieID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	if open {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrOpenRentalExists.Error()})
	}

	if err := h.Stock.DecrementStockTx(ctx, tx, req.MovieID); err != nil {
		switch err {
		case repository.ErrOutOfStock:
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie out of stock"})
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}

	rec := &model.Rental{
		CustomerID: req.CustomerID,
		MovieID:    req.MovieID,
		Customer:   model.CustomerSnapshot{Name: cu.Name, Phone: cu.Phone, IsGold: cu.IsGold},
		Movie:      model.MovieSnapshot{Title: m.Title, DailyRentalRateCents: m.DailyRentalRateCents},
		DateOut:    time.Now().UTC(),
	}
	if err := h.Rentals.CreateTx(ctx, tx, rec); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	committed = true

	return c.JSON(http.StatusCreated, rec)
}

// Get handles GET /v1/rentals/:id.
func (h *RentalHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rec, err := h.Rentals.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRentalNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rec)
}

// ListByCustomer handles GET /v1/customers/:id/rentals, newest first,
// open and closed alike.
func (h *RentalHandler) ListByCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Customers.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrCustomerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Rentals.ListByCustomer(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
