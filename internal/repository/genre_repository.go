package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/movie-rental-service/internal/model"
)

// GenreRepo provides CRUD operations for the genres table.
type GenreRepo struct {
    db *sql.DB
}

// NewGenreRepo returns a new GenreRepo bound to the given database.
func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{db: db} }

// ErrGenreExists is returned when inserting or renaming a genre to a
// name that already exists (unique index on genres.name).
var ErrGenreExists = errors.New("genre name already exists")

// List returns all genres ordered by name.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
    const q = `SELECT id, name, created_at, updated_at FROM genres ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Genre, 0)
    for rows.Next() {
        var g model.Genre
        if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, g)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetByID returns a genre by primary key or ErrGenreNotFound.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*model.Genre, error) {
    const q = `SELECT id, name, created_at, updated_at FROM genres WHERE id = ?`
    var g model.Genre
    err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrGenreNotFound
        }
        return nil, err
    }
    return &g, nil
}

// Create inserts a genre and returns its generated ID.
func (r *GenreRepo) Create(ctx context.Context, name string) (uint64, error) {
    res, err := r.db.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, name)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrGenreExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Update renames a genre.  Returns ErrGenreNotFound when the id does
// not exist and ErrGenreExists when the new name collides.
func (r *GenreRepo) Update(ctx context.Context, id uint64, name string) error {
    res, err := r.db.ExecContext(ctx, `UPDATE genres SET name = ? WHERE id = ?`, name, id)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrGenreExists
        }
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        // Could also mean the name was unchanged; verify existence.
        var exists bool
        if err := r.db.QueryRowContext(ctx,
            `SELECT EXISTS(SELECT 1 FROM genres WHERE id = ?)`, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrGenreNotFound
        }
    }
    return nil
}

// Delete removes a genre.  Returns ErrConflict while movies still
// reference it and ErrGenreNotFound when the id does not exist.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
    var inUse bool
    if err := r.db.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM movies WHERE genre_id = ?)`, id).Scan(&inUse); err != nil {
        return err
    }
    if inUse {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrGenreNotFound
    }
    return nil
}
