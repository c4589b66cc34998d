// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and services to distinguish between different failure
// scenarios. For example, ErrRentalClosed indicates that a conditional
// close found the rental already returned, while ErrConflict signals
// that an operation cannot proceed due to existing dependent records
// (e.g. deleting a movie with open rentals).
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as attempting to delete a movie
// that still has open rentals. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrRentalNotFound is returned when no rental matches a lookup, be it
// by id or by (customer, movie) pair.
var ErrRentalNotFound = errors.New("rental not found")

// ErrRentalClosed is returned by RentalRepo.Close when the guarded
// update affects no rows because the rental already has a return date.
// It is the write-time signal that another request closed the rental
// between our read and our write.
var ErrRentalClosed = errors.New("rental already closed")

// ErrOpenRentalExists is returned at checkout when the customer already
// has an open rental for the requested movie. Allowing a second open
// rental for the same pair would make the return lookup ambiguous.
var ErrOpenRentalExists = errors.New("open rental already exists for customer and movie")

// ErrOutOfStock is returned at checkout when the movie has no copies
// left on the shelf.
var ErrOutOfStock = errors.New("movie out of stock")

// ErrGenreNotFound, ErrMovieNotFound and ErrCustomerNotFound are
// returned by the catalog repositories when a lookup by id matches no
// row.
var (
    ErrGenreNotFound    = errors.New("genre not found")
    ErrMovieNotFound    = errors.New("movie not found")
    ErrCustomerNotFound = errors.New("customer not found")
)
