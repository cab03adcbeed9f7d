package models

import "time"

// Named is a user-owned record identified only by its name. Categories and
// suppliers share this shape and live in separate tables.
type Named struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category = Named

type Supplier = Named
