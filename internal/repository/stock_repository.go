package repository // repository for movie stock persistence

import (
    "context"      // context for managing deadlines
    "database/sql" // sql provides DB interfaces
)

// StockRepo mutates the number_in_stock column of the movies table.
// All mutations happen via a single in-place UPDATE so concurrent
// checkouts and returns for the same movie serialize on the row
// without any application-level lock.
type StockRepo struct {
    db *sql.DB
}

// NewStockRepo constructs a StockRepo given a DB handle.
func NewStockRepo(db *sql.DB) *StockRepo {
    return &StockRepo{db: db}
}

// IncrementStock atomically adds delta to the stock count of a movie.
// The return workflow calls this with delta = 1 after the rental close
// has durably committed.  When the movie row does not exist the call
// fails with ErrMovieNotFound instead of silently affecting nothing.
func (r *StockRepo) IncrementStock(ctx context.Context, movieID uint64, delta int64) error {
    const q = `UPDATE movies SET number_in_stock = number_in_stock + ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, delta, movieID)
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

// DecrementStockTx atomically takes one copy off the shelf inside an
// existing transaction.  The guard `number_in_stock > 0` makes the
// decrement and the availability check a single statement: zero
// affected rows means either the movie is unknown or no copies are
// left, and the follow-up existence query tells the two apart.
func (r *StockRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, movieID uint64) error {
    const q = `UPDATE movies
               SET number_in_stock = number_in_stock - 1
               WHERE id = ? AND number_in_stock > 0`
    res, err := tx.ExecContext(ctx, q, movieID)
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
    if err := tx.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)`, movieID).Scan(&exists); err != nil {
        return err
    }
    if exists {
        return ErrOutOfStock
    }
    return ErrMovieNotFound
}
