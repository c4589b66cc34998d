package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-service/internal/model"
	"github.com/iliyamo/movie-rental-service/internal/queue"
	"github.com/iliyamo/movie-rental-service/internal/service/returns"
)

// ReturnProcessor is the slice of the returns service this handler
// needs.  The raw request strings go straight through; the service
// owns all validation so the two layers cannot disagree on what a
// valid identifier is.
type ReturnProcessor interface {
	ProcessReturn(ctx context.Context, customerID, movieID string) (*model.Rental, error)
}

// EventPublisher sends the rental.returned event to the broker.
type EventPublisher func(ctx context.Context, ev queue.RentalReturnedEvent) error

// ReturnHandler exposes the return workflow over HTTP.  Publish may be
// nil when no broker is configured.
type ReturnHandler struct {
	Processor ReturnProcessor
	Publish   EventPublisher
}

func NewReturnHandler(p ReturnProcessor, pub EventPublisher) *ReturnHandler {
	return &ReturnHandler{Processor: p, Publish: pub}
}

type returnReq struct {
	CustomerID string `json:"customer_id"`
	MovieID    string `json:"movie_id"`
}

// Process handles POST /v1/returns.  The response carries the closed
// rental with its computed fee; every failure maps one error code to
// one status so clients can branch on the body's "code" field.
func (h *ReturnHandler) Process(c echo.Context) error {
	var req returnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": string(returns.ErrInvalidInput), "error": "invalid request body"})
	}

	rec, err := h.Processor.ProcessReturn(c.Request().Context(), req.CustomerID, req.MovieID)
	if err != nil {
		switch returns.Code(err) {
		case returns.ErrInvalidInput:
			return c.JSON(http.StatusBadRequest, echo.Map{
				"code":  string(returns.ErrInvalidInput),
				"error": "invalid input",
				"field": returns.Field(err),
			})
		case returns.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{
				"code":  string(returns.ErrNotFound),
				"error": "no rental for this customer and movie",
			})
		case returns.ErrAlreadyProcessed:
			return c.JSON(http.StatusBadRequest, echo.Map{
				"code":  string(returns.ErrAlreadyProcessed),
				"error": "rental already returned",
			})
		case returns.ErrStoreUnavailable:
			// May include a close that committed before the stock
			// increment failed; the log line is the operator's cue
			// to reconcile the shelf count.
			log.Printf("return processing failed for customer=%s movie=%s: %v", req.CustomerID, req.MovieID, err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"code":  string(returns.ErrStoreUnavailable),
				"error": "store unavailable",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	h.publishReturned(rec)
	return c.JSON(http.StatusOK, rec)
}

// publishReturned emits the broker event.  Best effort: the return
// already committed, so a broker failure is logged and swallowed.
func (h *ReturnHandler) publishReturned(rec *model.Rental) {
	if h.Publish == nil || rec.DateReturned == nil || rec.RentalFeeCents == nil {
		return
	}
	ev := queue.RentalReturnedEvent{
		RentalID:       rec.ID,
		CustomerID:     rec.CustomerID,
		MovieID:        rec.MovieID,
		CustomerName:   rec.Customer.Name,
		MovieTitle:     rec.Movie.Title,
		DateOut:        rec.DateOut.UTC().Format("2006-01-02 15:04:05"),
		DateReturned:   rec.DateReturned.UTC().Format("2006-01-02 15:04:05"),
		RentalFeeCents: *rec.RentalFeeCents,
	}
	// Detached context: the HTTP request may already be done.
	if err := h.Publish(context.Background(), ev); err != nil {
		log.Printf("rental.returned publish failed for rental %d: %v", rec.ID, err)
	}
}
