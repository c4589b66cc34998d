package returns

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-service/internal/model"
	"github.com/iliyamo/movie-rental-service/internal/repository"
)

type rentalStoreMock struct {
	findOpenFn func(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
	latestFn   func(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
	closeFn    func(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error
}

func (m *rentalStoreMock) FindOpenByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	return m.findOpenFn(ctx, customerID, movieID)
}
func (m *rentalStoreMock) LatestByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	return m.latestFn(ctx, customerID, movieID)
}
func (m *rentalStoreMock) Close(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
	return m.closeFn(ctx, id, returnedAt, feeCents)
}

type stockMock struct {
	incrementFn func(ctx context.Context, movieID uint64, delta int64) error
	calls       int
}

func (m *stockMock) IncrementStock(ctx context.Context, movieID uint64, delta int64) error {
	m.calls++
	if m.incrementFn != nil {
		return m.incrementFn(ctx, movieID, delta)
	}
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(rentals RentalStore, stock InventoryStore, now time.Time) *Service {
	s := New(rentals, stock)
	s.clock = fixedClock{t: now}
	return s
}

func openRental(dateOut time.Time, rateCents uint32) *model.Rental {
	return &model.Rental{
		ID:         11,
		CustomerID: 1,
		MovieID:    2,
		Customer:   model.CustomerSnapshot{Name: "Ada Lovelace", Phone: "555-0100"},
		Movie:      model.MovieSnapshot{Title: "Metropolis", DailyRentalRateCents: rateCents},
		DateOut:    dateOut,
	}
}

func TestProcessReturn_InvalidInput(t *testing.T) {
	// No store functions are wired: any store call would panic, which
	// is exactly what we want to assert cannot happen before
	// validation passes.
	s := newService(&rentalStoreMock{}, &stockMock{}, time.Now().UTC())

	cases := []struct {
		name       string
		customerID string
		movieID    string
		wantField  string
	}{
		{"missing customer", "", "2", "customer_id"},
		{"missing movie", "1", "", "movie_id"},
		{"non-numeric customer", "abc", "2", "customer_id"},
		{"non-numeric movie", "1", "x9", "movie_id"},
		{"zero customer", "0", "2", "customer_id"},
		{"zero movie", "1", "0", "movie_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ProcessReturn(context.Background(), tc.customerID, tc.movieID)
			require.Error(t, err)
			require.Equal(t, ErrInvalidInput, Code(err))
			require.Equal(t, tc.wantField, Field(err))
		})
	}
}

func TestProcessReturn_NotFound(t *testing.T) {
	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return nil, repository.ErrRentalNotFound
		},
		latestFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return nil, repository.ErrRentalNotFound
		},
	}
	stock := &stockMock{}
	s := newService(rentals, stock, time.Now().UTC())

	_, err := s.ProcessReturn(context.Background(), "1", "2")
	require.Equal(t, ErrNotFound, Code(err))
	require.Zero(t, stock.calls)
}

func TestProcessReturn_AlreadyProcessed_OnLookup(t *testing.T) {
	returned := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	fee := uint32(600)
	closed := openRental(returned.AddDate(0, 0, -3), 200)
	closed.DateReturned = &returned
	closed.RentalFeeCents = &fee

	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return nil, repository.ErrRentalNotFound
		},
		latestFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return closed, nil
		},
	}
	stock := &stockMock{}
	s := newService(rentals, stock, time.Now().UTC())

	_, err := s.ProcessReturn(context.Background(), "1", "2")
	require.Equal(t, ErrAlreadyProcessed, Code(err))
	require.Zero(t, stock.calls, "a repeated return must not credit stock again")
}

func TestProcessReturn_SevenDayRental(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	rental := openRental(now.AddDate(0, 0, -7), 200)

	var closedID uint64
	var closedAt time.Time
	var closedFee uint32
	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			require.Equal(t, uint64(1), cid)
			require.Equal(t, uint64(2), mid)
			return rental, nil
		},
		closeFn: func(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
			closedID, closedAt, closedFee = id, returnedAt, feeCents
			return nil
		},
	}
	var gotMovieID uint64
	var gotDelta int64
	stock := &stockMock{
		incrementFn: func(ctx context.Context, movieID uint64, delta int64) error {
			gotMovieID, gotDelta = movieID, delta
			return nil
		},
	}
	s := newService(rentals, stock, now)

	summary, err := s.ProcessReturn(context.Background(), "1", "2")
	require.NoError(t, err)

	// 7 whole days at 200 cents/day.
	require.Equal(t, uint32(1400), closedFee)
	require.Equal(t, rental.ID, closedID)
	require.Equal(t, now, closedAt)

	require.Equal(t, 1, stock.calls)
	require.Equal(t, uint64(2), gotMovieID)
	require.Equal(t, int64(1), gotDelta)

	require.NotNil(t, summary.DateReturned)
	require.Equal(t, now, *summary.DateReturned)
	require.NotNil(t, summary.RentalFeeCents)
	require.Equal(t, uint32(1400), *summary.RentalFeeCents)
	require.Equal(t, rental.DateOut, summary.DateOut)
	require.Equal(t, "Ada Lovelace", summary.Customer.Name)
	require.Equal(t, "Metropolis", summary.Movie.Title)
}

func TestProcessReturn_SameDayIsFree(t *testing.T) {
	now := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	rental := openRental(now.Add(-5*time.Hour), 350)

	var closedFee uint32 = 999
	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return rental, nil
		},
		closeFn: func(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
			closedFee = feeCents
			return nil
		},
	}
	stock := &stockMock{}
	s := newService(rentals, stock, now)

	summary, err := s.ProcessReturn(context.Background(), "1", "2")
	require.NoError(t, err)
	require.Equal(t, uint32(0), closedFee)
	require.Equal(t, uint32(0), *summary.RentalFeeCents)
	require.Equal(t, 1, stock.calls)
}

func TestProcessReturn_SecondCallRejected(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rental := openRental(now.AddDate(0, 0, -2), 100)

	// Stateful store: the first Close flips the record to closed, so
	// the second invocation's open lookup misses and the history
	// lookup reports the closed rental.
	closed := false
	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			if closed {
				return nil, repository.ErrRentalNotFound
			}
			return rental, nil
		},
		latestFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			if closed {
				c := *rental
				c.DateReturned = &now
				fee := uint32(200)
				c.RentalFeeCents = &fee
				return &c, nil
			}
			return rental, nil
		},
		closeFn: func(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
			closed = true
			return nil
		},
	}
	stock := &stockMock{}
	s := newService(rentals, stock, now)

	_, err := s.ProcessReturn(context.Background(), "1", "2")
	require.NoError(t, err)

	_, err = s.ProcessReturn(context.Background(), "1", "2")
	require.Equal(t, ErrAlreadyProcessed, Code(err))
	require.Equal(t, 1, stock.calls, "stock must be credited exactly once")
}

func TestProcessReturn_CloseRaceLost(t *testing.T) {
	now := time.Now().UTC()
	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return openRental(now.AddDate(0, 0, -1), 100), nil
		},
		closeFn: func(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
			// Concurrent return closed the rental between our read
			// and our write; the guarded UPDATE reports it.
			return repository.ErrRentalClosed
		},
	}
	stock := &stockMock{}
	s := newService(rentals, stock, now)

	_, err := s.ProcessReturn(context.Background(), "1", "2")
	require.Equal(t, ErrAlreadyProcessed, Code(err))
	require.Zero(t, stock.calls)
}

func TestProcessReturn_SaveFailureSkipsStock(t *testing.T) {
	now := time.Now().UTC()
	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return openRental(now.AddDate(0, 0, -1), 100), nil
		},
		closeFn: func(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
			return errors.New("connection reset")
		},
	}
	stock := &stockMock{}
	s := newService(rentals, stock, now)

	_, err := s.ProcessReturn(context.Background(), "1", "2")
	require.Equal(t, ErrStoreUnavailable, Code(err))
	require.Zero(t, stock.calls, "stock must not be credited for a return that did not durably record")
}

func TestProcessReturn_IncrementFailureAfterClose(t *testing.T) {
	now := time.Now().UTC()
	closeCalls := 0
	rentals := &rentalStoreMock{
		findOpenFn: func(ctx context.Context, cid, mid uint64) (*model.Rental, error) {
			return openRental(now.AddDate(0, 0, -1), 100), nil
		},
		closeFn: func(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
			closeCalls++
			return nil
		},
	}
	stock := &stockMock{
		incrementFn: func(ctx context.Context, movieID uint64, delta int64) error {
			return errors.New("connection reset")
		},
	}
	s := newService(rentals, stock, now)

	_, err := s.ProcessReturn(context.Background(), "1", "2")
	// The close committed; the missing stock credit surfaces as a
	// store failure instead of a rollback.
	require.Equal(t, ErrStoreUnavailable, Code(err))
	require.Equal(t, 1, closeCalls)
}

func TestFeeCents(t *testing.T) {
	out := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		at   time.Time
		rate uint32
		want uint32
	}{
		{"same moment", out, 200, 0},
		{"under one day", out.Add(23*time.Hour + 59*time.Minute), 200, 0},
		{"exactly one day", out.Add(24 * time.Hour), 200, 200},
		{"one day and change", out.Add(47 * time.Hour), 200, 200},
		{"seven days", out.AddDate(0, 0, 7), 200, 1400},
		{"clock skew clamps", out.Add(-time.Hour), 200, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, feeCents(out, tc.at, tc.rate))
		})
	}
}
