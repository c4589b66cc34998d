// Package returns implements the rental-return workflow: look up the
// open rental for a (customer, movie) pair, close it exactly once with
// a computed fee, and credit the movie's stock back.  It is the one
// part of the system that mutates two related records under a single
// logical operation.
package returns

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/movie-rental-service/internal/model"
	"github.com/iliyamo/movie-rental-service/internal/repository"
)

// Clock abstracts time.Now so tests can pin the return timestamp.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RentalStore is the slice of the rental repository the processor
// consumes.  FindOpenByCustomerAndMovie and LatestByCustomerAndMovie
// report a miss with repository.ErrRentalNotFound; Close reports a
// failed open-to-closed guard with repository.ErrRentalClosed.
type RentalStore interface {
	FindOpenByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
	LatestByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
	Close(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error
}

// InventoryStore credits returned copies back onto the shelf.  The
// processor only ever increments, by exactly 1, and never reads the
// count.
type InventoryStore interface {
	IncrementStock(ctx context.Context, movieID uint64, delta int64) error
}

// Service orchestrates the return state machine.  Each call is
// independent; the only shared state lives behind the two stores.
type Service struct {
	rentals RentalStore
	stock   InventoryStore
	clock   Clock
}

// New constructs a Service over the given stores.
func New(rentals RentalStore, stock InventoryStore) *Service {
	return &Service{rentals: rentals, stock: stock, clock: realClock{}}
}

// ProcessReturn closes the open rental for the given pair and credits
// one copy back to the movie's stock.  The identifiers arrive as the
// raw request strings; both must be present and parse to a positive
// integer, checked in order (customer first), each failing with a
// distinct ErrInvalidInput.
//
// The transition runs strictly in this order: lookup, already-closed
// check, fee computation, conditional close, stock increment.  The
// increment happens only after the close committed, so a failed close
// can never credit stock.  The close and the increment are two
// independent statements with no cross-store transaction: a crash in
// between leaves a closed rental whose copy was not credited yet,
// which is accepted and surfaced as ErrStoreUnavailable rather than
// compensated.
//
// On success the returned rental carries the full closing state,
// including the embedded customer and movie snapshots taken at
// checkout.
func (s *Service) ProcessReturn(ctx context.Context, customerID, movieID string) (*model.Rental, error) {
	cid, ok := parseID(customerID)
	if !ok {
		return nil, InvalidInputError("customer_id")
	}
	mid, ok := parseID(movieID)
	if !ok {
		return nil, InvalidInputError("movie_id")
	}

	rental, err := s.rentals.FindOpenByCustomerAndMovie(ctx, cid, mid)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			// The open lookup cannot tell "never rented" from
			// "already returned"; re-check against the full history.
			last, lerr := s.rentals.LatestByCustomerAndMovie(ctx, cid, mid)
			switch {
			case lerr == nil && !last.Open():
				return nil, AlreadyProcessedError()
			case lerr != nil && !errors.Is(lerr, repository.ErrRentalNotFound):
				return nil, StoreUnavailableError(lerr)
			default:
				return nil, NotFoundError()
			}
		}
		return nil, StoreUnavailableError(err)
	}

	now := s.clock.Now().UTC()
	fee := feeCents(rental.DateOut, now, rental.Movie.DailyRentalRateCents)

	if err := s.rentals.Close(ctx, rental.ID, now, fee); err != nil {
		if errors.Is(err, repository.ErrRentalClosed) {
			// Another request won the race between our read and write.
			return nil, AlreadyProcessedError()
		}
		return nil, StoreUnavailableError(err)
	}

	if err := s.stock.IncrementStock(ctx, mid, 1); err != nil {
		// The rental close is already durable; no rollback is
		// attempted.  The stock shortfall is operator-visible.
		return nil, StoreUnavailableError(err)
	}

	closed := *rental
	closed.DateReturned = &now
	closed.RentalFeeCents = &fee
	return &closed, nil
}

// feeCents computes the rental fee: whole elapsed days times the daily
// rate snapshotted at checkout.  Partial days floor to zero, so a
// same-day return is free.
func feeCents(dateOut, returnedAt time.Time, dailyRateCents uint32) uint32 {
	elapsed := returnedAt.Sub(dateOut)
	if elapsed < 0 {
		elapsed = 0
	}
	days := uint32(elapsed / (24 * time.Hour))
	return days * dailyRateCents
}

// parseID accepts a non-empty decimal string identifying a record.
// Zero is not a valid identifier.
func parseID(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
