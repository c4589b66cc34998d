package model

import "time"

// CustomerSnapshot is the immutable copy of customer display fields
// embedded in a rental at checkout time.  It is intentionally decoupled
// from later edits to the customers table: renaming a customer must not
// rewrite their rental history.
type CustomerSnapshot struct {
    Name   string `json:"name"`    // rentals.customer_name
    Phone  string `json:"phone"`   // rentals.customer_phone
    IsGold bool   `json:"is_gold"` // rentals.customer_is_gold
}

// MovieSnapshot is the immutable copy of movie display fields embedded
// in a rental at checkout time.  DailyRentalRateCents is the rate the
// fee is computed from when the rental is returned, independent of any
// price change on the movie in the meantime.
type MovieSnapshot struct {
    Title                string `json:"title"`                   // rentals.movie_title
    DailyRentalRateCents uint32 `json:"daily_rental_rate_cents"` // rentals.daily_rental_rate_cents
}

// Rental records one checkout-to-return cycle.  A rental is open while
// DateReturned is nil and closed once both DateReturned and
// RentalFeeCents are set.  A closed rental is never modified again.
// The store may hold several historical rentals for the same
// (customer, movie) pair, but at most one of them is open.
//
// Fields:
//  ID             – primary key identifier, assigned at checkout.
//  CustomerID     – customer who checked the movie out; immutable.
//  MovieID        – movie that was checked out; immutable.
//  Customer       – embedded customer snapshot taken at checkout.
//  Movie          – embedded movie snapshot taken at checkout.
//  DateOut        – checkout timestamp (UTC); immutable.
//  DateReturned   – return timestamp (UTC); nil while the rental is open.
//  RentalFeeCents – fee computed at return time; nil while open.
type Rental struct {
    ID             uint64           `json:"id"`
    CustomerID     uint64           `json:"customer_id"`
    MovieID        uint64           `json:"movie_id"`
    Customer       CustomerSnapshot `json:"customer"`
    Movie          MovieSnapshot    `json:"movie"`
    DateOut        time.Time        `json:"date_out"`
    DateReturned   *time.Time       `json:"date_returned,omitempty"`
    RentalFeeCents *uint32          `json:"rental_fee_cents,omitempty"`
}

// Open reports whether the rental has not been returned yet.
func (r *Rental) Open() bool { return r.DateReturned == nil }
