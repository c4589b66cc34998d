package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/movie-rental-service/internal/model"
)

// CustomerRepo provides CRUD operations for the customers table.
type CustomerRepo struct {
    db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `id, name, phone, is_gold, created_at, updated_at`

func scanCustomer(scan func(dest ...interface{}) error) (*model.Customer, error) {
    var c model.Customer
    err := scan(&c.ID, &c.Name, &c.Phone, &c.IsGold, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// List returns all customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
    const q = `SELECT ` + customerCols + ` FROM customers ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Customer, 0)
    for rows.Next() {
        c, err := scanCustomer(rows.Scan)
        if err != nil {
            return nil, err
        }
        out = append(out, *c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetByID returns a customer by primary key or ErrCustomerNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
    const q = `SELECT ` + customerCols + ` FROM customers WHERE id = ?`
    c, err := scanCustomer(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCustomerNotFound
        }
        return nil, err
    }
    return c, nil
}

// GetForCheckoutTx loads the customer fields the checkout flow
// snapshots into the rental, inside the checkout transaction.
func (r *CustomerRepo) GetForCheckoutTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Customer, error) {
    const q = `SELECT ` + customerCols + ` FROM customers WHERE id = ?`
    c, err := scanCustomer(tx.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCustomerNotFound
        }
        return nil, err
    }
    return c, nil
}

// Create inserts a customer and returns its generated ID.
func (r *CustomerRepo) Create(ctx context.Context, name, phone string, isGold bool) (uint64, error) {
    const q = `INSERT INTO customers (name, phone, is_gold) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, name, phone, isGold)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Update rewrites a customer's mutable fields.  Rentals are not
// touched: the snapshots embedded at checkout time stay as they were.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, name, phone string, isGold bool) error {
    const q = `UPDATE customers SET name = ?, phone = ?, is_gold = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, name, phone, isGold, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        var exists bool
        if err := r.db.QueryRowContext(ctx,
            `SELECT EXISTS(SELECT 1 FROM customers WHERE id = ?)`, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrCustomerNotFound
        }
    }
    return nil
}

// Delete removes a customer.  Refused with ErrConflict while the
// customer has open rentals; history rows for returned rentals keep
// their snapshots and are left in place.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
    var open bool
    if err := r.db.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM rentals WHERE customer_id = ? AND date_returned IS NULL)`,
        id).Scan(&open); err != nil {
        return err
    }
    if open {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrCustomerNotFound
    }
    return nil
}
