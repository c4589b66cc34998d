package model

import "time"

// Customer represents a row in the `customers` table.  Customers are
// the people renting movies; they are distinct from the `users` table
// which holds API accounts.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the customer.
//  Phone     – contact phone number.
//  IsGold    – whether the customer is on the gold plan.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Customer struct {
    ID        uint64    `json:"id"`         // customers.id
    Name      string    `json:"name"`       // customers.name
    Phone     string    `json:"phone"`      // customers.phone
    IsGold    bool      `json:"is_gold"`    // customers.is_gold
    CreatedAt time.Time `json:"created_at"` // customers.created_at
    UpdatedAt time.Time `json:"updated_at"` // customers.updated_at
}
