package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/movie-rental-service/internal/model"
)

// isForeignKeyErr matches MySQL error 1452 (foreign key constraint
// fails on insert/update).
func isForeignKeyErr(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1452")
}

// MovieRepo provides CRUD operations for the movies table.  Reads join
// the genres table to expose the denormalized genre name.  Stock
// mutations do NOT live here; they belong to StockRepo so that every
// stock change in the codebase goes through one atomic primitive.
type MovieRepo struct {
    db *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = `m.id, m.title, m.genre_id, g.name, m.daily_rental_rate_cents, m.number_in_stock, m.created_at, m.updated_at`

func scanMovie(scan func(dest ...interface{}) error) (*model.Movie, error) {
    var m model.Movie
    err := scan(&m.ID, &m.Title, &m.GenreID, &m.GenreName,
        &m.DailyRentalRateCents, &m.NumberInStock, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &m, nil
}

// List returns all movies with their genre names, ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
    const q = `SELECT ` + movieCols + `
               FROM movies m
               JOIN genres g ON g.id = m.genre_id
               ORDER BY m.title`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Movie, 0)
    for rows.Next() {
        m, err := scanMovie(rows.Scan)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetByID returns a movie by primary key or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
    const q = `SELECT ` + movieCols + `
               FROM movies m
               JOIN genres g ON g.id = m.genre_id
               WHERE m.id = ?`
    m, err := scanMovie(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrMovieNotFound
        }
        return nil, err
    }
    return m, nil
}

// GetForCheckoutTx loads the movie fields the checkout flow snapshots
// into the rental, inside the checkout transaction.  Returns
// ErrMovieNotFound when the id matches no row.
func (r *MovieRepo) GetForCheckoutTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Movie, error) {
    const q = `SELECT ` + movieCols + `
               FROM movies m
               JOIN genres g ON g.id = m.genre_id
               WHERE m.id = ?`
    m, err := scanMovie(tx.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrMovieNotFound
        }
        return nil, err
    }
    return m, nil
}

// Create inserts a movie and returns its generated ID.  The genre must
// exist; a foreign key violation is surfaced as ErrGenreNotFound.
func (r *MovieRepo) Create(ctx context.Context, title string, genreID uint64, dailyRateCents, numberInStock uint32) (uint64, error) {
    const q = `INSERT INTO movies (title, genre_id, daily_rental_rate_cents, number_in_stock)
               VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, title, genreID, dailyRateCents, numberInStock)
    if err != nil {
        if isForeignKeyErr(err) {
            return 0, ErrGenreNotFound
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Update rewrites title, genre and daily rate.  Stock is intentionally
// not updatable here.  Returns ErrMovieNotFound when the id does not
// exist and ErrGenreNotFound on a genre foreign key violation.
func (r *MovieRepo) Update(ctx context.Context, id uint64, title string, genreID uint64, dailyRateCents uint32) error {
    const q = `UPDATE movies SET title = ?, genre_id = ?, daily_rental_rate_cents = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, title, genreID, dailyRateCents, id)
    if err != nil {
        if isForeignKeyErr(err) {
            return ErrGenreNotFound
        }
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        var exists bool
        if err := r.db.QueryRowContext(ctx,
            `SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)`, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrMovieNotFound
        }
    }
    return nil
}

// Delete removes a movie.  The caller is expected to have verified
// that no open rentals reference it (RentalRepo.CountOpenByMovie);
// closed rentals keep their embedded snapshot and survive the delete.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrMovieNotFound
    }
    return nil
}
