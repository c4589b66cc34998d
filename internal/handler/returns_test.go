package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-service/internal/model"
	"github.com/iliyamo/movie-rental-service/internal/queue"
	"github.com/iliyamo/movie-rental-service/internal/service/returns"
)

type processorMock struct {
	processFn func(ctx context.Context, customerID, movieID string) (*model.Rental, error)
}

func (m *processorMock) ProcessReturn(ctx context.Context, customerID, movieID string) (*model.Rental, error) {
	return m.processFn(ctx, customerID, movieID)
}

func postReturn(t *testing.T, h *ReturnHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/returns", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.Process(c))
	return rec
}

func closedRental() *model.Rental {
	out := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	back := out.Add(7 * 24 * time.Hour)
	fee := uint32(1400)
	return &model.Rental{
		ID:             41,
		CustomerID:     7,
		MovieID:        2,
		Customer:       model.CustomerSnapshot{Name: "Dana", Phone: "555-0100"},
		Movie:          model.MovieSnapshot{Title: "Heat", DailyRentalRateCents: 200},
		DateOut:        out,
		DateReturned:   &back,
		RentalFeeCents: &fee,
	}
}

func TestProcessReturn_OK(t *testing.T) {
	var published []queue.RentalReturnedEvent
	h := NewReturnHandler(
		&processorMock{processFn: func(ctx context.Context, customerID, movieID string) (*model.Rental, error) {
			require.Equal(t, "7", customerID)
			require.Equal(t, "2", movieID)
			return closedRental(), nil
		}},
		func(ctx context.Context, ev queue.RentalReturnedEvent) error {
			published = append(published, ev)
			return nil
		},
	)

	rec := postReturn(t, h, `{"customer_id":"7","movie_id":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, uint64(41), got.ID)
	require.NotNil(t, got.RentalFeeCents)
	require.Equal(t, uint32(1400), *got.RentalFeeCents)
	require.NotNil(t, got.DateReturned)

	require.Len(t, published, 1)
	require.Equal(t, uint64(41), published[0].RentalID)
	require.Equal(t, "Heat", published[0].MovieTitle)
	require.Equal(t, uint32(1400), published[0].RentalFeeCents)
}

func TestProcessReturn_PublisherFailureIsSwallowed(t *testing.T) {
	h := NewReturnHandler(
		&processorMock{processFn: func(ctx context.Context, customerID, movieID string) (*model.Rental, error) {
			return closedRental(), nil
		}},
		func(ctx context.Context, ev queue.RentalReturnedEvent) error {
			return context.DeadlineExceeded
		},
	)

	rec := postReturn(t, h, `{"customer_id":"7","movie_id":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProcessReturn_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", returns.InvalidInputError("customer_id"), http.StatusBadRequest, "INVALID_INPUT"},
		{"not found", returns.NotFoundError(), http.StatusNotFound, "NOT_FOUND"},
		{"already processed", returns.AlreadyProcessedError(), http.StatusBadRequest, "ALREADY_PROCESSED"},
		{"store unavailable", returns.StoreUnavailableError(context.DeadlineExceeded), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewReturnHandler(
				&processorMock{processFn: func(ctx context.Context, customerID, movieID string) (*model.Rental, error) {
					return nil, tc.err
				}},
				nil,
			)
			rec := postReturn(t, h, `{"customer_id":"7","movie_id":"2"}`)
			require.Equal(t, tc.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.wantCode, body["code"])
		})
	}
}

func TestProcessReturn_InvalidInputNamesField(t *testing.T) {
	h := NewReturnHandler(
		&processorMock{processFn: func(ctx context.Context, customerID, movieID string) (*model.Rental, error) {
			return nil, returns.InvalidInputError("movie_id")
		}},
		nil,
	)
	rec := postReturn(t, h, `{"customer_id":"7","movie_id":"abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "movie_id", body["field"])
}

func TestProcessReturn_MalformedBody(t *testing.T) {
	h := NewReturnHandler(
		&processorMock{processFn: func(ctx context.Context, customerID, movieID string) (*model.Rental, error) {
			t.Fatal("processor must not run on a malformed body")
			return nil, nil
		}},
		nil,
	)
	rec := postReturn(t, h, `{"customer_id":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
