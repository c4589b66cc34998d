// Package queue defines message payloads exchanged over the message broker.
package queue

// RentalReturnedEvent is published when a return is successfully
// processed.  It carries the closed rental's snapshot fields so
// downstream consumers can log, notify, or feed analytics without
// querying the primary database.
type RentalReturnedEvent struct {
    RentalID       uint64 `json:"rental_id"`
    CustomerID     uint64 `json:"customer_id"`
    MovieID        uint64 `json:"movie_id"`
    CustomerName   string `json:"customer_name"`
    MovieTitle     string `json:"movie_title"`
    DateOut        string `json:"date_out"`
    DateReturned   string `json:"date_returned"`
    RentalFeeCents uint32 `json:"rental_fee_cents"`
}
