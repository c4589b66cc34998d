package model

import "time"

// Genre represents a row in the `genres` table.  Genres classify
// movies and are referenced by the movies table via GenreID.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique genre name (e.g. "Action").
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Genre struct {
    ID        uint64    `json:"id"`         // genres.id
    Name      string    `json:"name"`       // genres.name
    CreatedAt time.Time `json:"created_at"` // genres.created_at
    UpdatedAt time.Time `json:"updated_at"` // genres.updated_at
}
