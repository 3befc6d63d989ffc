package models

import "time"

// Category is a named lead tag. LeadCount is computed on read, never stored.
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	LeadCount int       `json:"lead_count"`
	CreatedAt time.Time `json:"created_at"`
}
