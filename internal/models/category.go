package models

import "time"

// Category groups products on the storefront. Name and Slug are unique
// among live categories.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	State     Lifecycle `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Category) IsLive() bool {
	return c.State.IsLive()
}
