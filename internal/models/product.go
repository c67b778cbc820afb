package models

import "time"

// Product is a catalog entry. CategoryID is a soft reference: the category
// may have been soft-deleted since the product was last saved.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	CategoryID  string     `json:"category"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	State       Lifecycle  `json:"state"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p Product) IsLive() bool {
	return p.State.IsLive()
}
