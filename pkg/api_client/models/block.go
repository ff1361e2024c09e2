package models

import "time"

// Block is the durable attribute set of a configured course block
type Block struct {
	ID        string          `json:"id"`
	Endpoint  string          `json:"endpoint"`
	Filters   FilterSelection `json:"filtros"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
