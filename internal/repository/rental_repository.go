package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/movie-rental-service/internal/model"
)

// RentalRepo provides persistence for rentals.  A rental carries
// immutable customer and movie snapshot columns taken at checkout in
// addition to the foreign keys, so rental history reads never join the
// live customers or movies tables.  All timestamp fields are stored in
// UTC.
type RentalRepo struct {
    db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span the rentals and movies tables.
func (r *RentalRepo) DB() *sql.DB { return r.db }

const rentalCols = `id, customer_id, movie_id,
       customer_name, customer_phone, customer_is_gold,
       movie_title, daily_rental_rate_cents,
       date_out, date_returned, rental_fee_cents`

// scanRental populates a model.Rental from a row selected with
// rentalCols.  The nullable return columns become nil pointers while
// the rental is open.
func scanRental(scan func(dest ...interface{}) error) (*model.Rental, error) {
    var (
        rec          model.Rental
        dateReturned sql.NullTime
        feeCents     sql.NullInt64
    )
    err := scan(
        &rec.ID, &rec.CustomerID, &rec.MovieID,
        &rec.Customer.Name, &rec.Customer.Phone, &rec.Customer.IsGold,
        &rec.Movie.Title, &rec.Movie.DailyRentalRateCents,
        &rec.DateOut, &dateReturned, &feeCents,
    )
    if err != nil {
        return nil, err
    }
    if dateReturned.Valid {
        t := dateReturned.Time.UTC()
        rec.DateReturned = &t
    }
    if feeCents.Valid {
        f := uint32(feeCents.Int64)
        rec.RentalFeeCents = &f
    }
    rec.DateOut = rec.DateOut.UTC()
    return &rec, nil
}

// CreateTx inserts a new open rental within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller supplies the snapshot fields and DateOut; date_returned
// and rental_fee_cents start out NULL.  The caller must commit or
// rollback the transaction.
func (r *RentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.Rental) error {
    const q = `INSERT INTO rentals
               (customer_id, movie_id, customer_name, customer_phone, customer_is_gold,
                movie_title, daily_rental_rate_cents, date_out)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        rec.CustomerID, rec.MovieID,
        rec.Customer.Name, rec.Customer.Phone, rec.Customer.IsGold,
        rec.Movie.Title, rec.Movie.DailyRentalRateCents,
        rec.DateOut.UTC().Format("2006-01-02 15:04:05"),
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    return nil
}

// FindOpenByCustomerAndMovie returns the single open rental for the
// given (customer, movie) pair.  It returns ErrRentalNotFound when the
// pair is unknown or every rental for the pair is already closed; the
// caller cannot tell those cases apart from this call alone and should
// use LatestByCustomerAndMovie to re-check state.
func (r *RentalRepo) FindOpenByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
    const q = `SELECT ` + rentalCols + `
               FROM rentals
               WHERE customer_id = ? AND movie_id = ? AND date_returned IS NULL
               LIMIT 1`
    rec, err := scanRental(r.db.QueryRowContext(ctx, q, customerID, movieID).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRentalNotFound
        }
        return nil, err
    }
    return rec, nil
}

// LatestByCustomerAndMovie returns the most recent rental for the pair
// regardless of state, or ErrRentalNotFound when the pair has no
// rental history at all.  The return workflow uses this to distinguish
// "never rented" from "already returned" after the open lookup misses.
func (r *RentalRepo) LatestByCustomerAndMovie(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
    const q = `SELECT ` + rentalCols + `
               FROM rentals
               WHERE customer_id = ? AND movie_id = ?
               ORDER BY date_out DESC, id DESC
               LIMIT 1`
    rec, err := scanRental(r.db.QueryRowContext(ctx, q, customerID, movieID).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRentalNotFound
        }
        return nil, err
    }
    return rec, nil
}

// GetByID returns a single rental by primary key, or ErrRentalNotFound.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
    const q = `SELECT ` + rentalCols + ` FROM rentals WHERE id = ?`
    rec, err := scanRental(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRentalNotFound
        }
        return nil, err
    }
    return rec, nil
}

// Close writes the return date and fee onto an open rental.  The
// UPDATE is guarded on `date_returned IS NULL`, so a rental can only
// transition from open to closed once no matter how many requests race
// on it.  When the guard rejects the write, Close re-checks the row:
// a still-present row means another writer closed the rental first
// (ErrRentalClosed); a vanished row is a store-level defect surfaced
// as ErrRentalNotFound rather than swallowed.
func (r *RentalRepo) Close(ctx context.Context, id uint64, returnedAt time.Time, feeCents uint32) error {
    const q = `UPDATE rentals
               SET date_returned = ?, rental_fee_cents = ?
               WHERE id = ? AND date_returned IS NULL`
    res, err := r.db.ExecContext(ctx, q, returnedAt.UTC().Format("2006-01-02 15:04:05"), feeCents, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected > 0 {
        return nil
    }
    var exists bool
    if err := r.db.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM rentals WHERE id = ?)`, id).Scan(&exists); err != nil {
        return err
    }
    if exists {
        return ErrRentalClosed
    }
    return ErrRentalNotFound
}

// HasOpenForPairTx reports whether an open rental already exists for
// the (customer, movie) pair.  Checkout calls this inside its
// transaction before inserting, which keeps the "at most one open
// rental per pair" invariant that the return lookup depends on.
func (r *RentalRepo) HasOpenForPairTx(ctx context.Context, tx *sql.Tx, customerID, movieID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM rentals
                   WHERE customer_id = ? AND movie_id = ? AND date_returned IS NULL
               )`
    var exists bool
    err := tx.QueryRowContext(ctx, q, customerID, movieID).Scan(&exists)
    return exists, err
}

// CountOpenByMovie returns the number of open rentals for a movie.
// Movie deletion is refused while this is non-zero.
func (r *RentalRepo) CountOpenByMovie(ctx context.Context, movieID uint64) (uint64, error) {
    const q = `SELECT COUNT(*) FROM rentals WHERE movie_id = ? AND date_returned IS NULL`
    var n uint64
    err := r.db.QueryRowContext(ctx, q, movieID).Scan(&n)
    return n, err
}

// ListByCustomer returns all rentals for the given customer ordered by
// checkout time descending (newest first).  When no rentals exist, an
// empty slice is returned.
func (r *RentalRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Rental, error) {
    const q = `SELECT ` + rentalCols + `
               FROM rentals
               WHERE customer_id = ?
               ORDER BY date_out DESC, id DESC`
    rows, err := r.db.QueryContext(ctx, q, customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Rental, 0)
    for rows.Next() {
        rec, err := scanRental(rows.Scan)
        if err != nil {
            return nil, err
        }
        out = append(out, *rec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
