package model

import "time"

// Movie represents a title available for rental as stored in the
// `movies` table.  NumberInStock is the count of physical copies
// currently on the shelf; it is decremented at checkout and
// incremented at return, always via an atomic in-place update, never
// read-modify-write in application code.
//
// Fields:
//  ID                  – primary key identifier.
//  Title               – display title of the movie.
//  GenreID             – foreign key into the genres table.
//  GenreName           – denormalized genre name populated on reads that join genres.
//  DailyRentalRateCents – price per rental day in cents.
//  NumberInStock       – copies currently available.
//  CreatedAt           – timestamp of creation.
//  UpdatedAt           – timestamp of last update.
type Movie struct {
    ID                   uint64    `json:"id"`                      // movies.id
    Title                string    `json:"title"`                   // movies.title
    GenreID              uint64    `json:"genre_id"`                // movies.genre_id
    GenreName            string    `json:"genre_name"`              // genres.name (joined, not a column of movies)
    DailyRentalRateCents uint32    `json:"daily_rental_rate_cents"` // movies.daily_rental_rate_cents
    NumberInStock        uint32    `json:"number_in_stock"`         // movies.number_in_stock
    CreatedAt            time.Time `json:"created_at"`              // movies.created_at
    UpdatedAt            time.Time `json:"updated_at"`              // movies.updated_at
}
