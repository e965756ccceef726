package domain

import "time"

// Room is a bookable unit. Rows are managed outside this application; it only
// reads them.
type Room struct {
	ID               string    `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	ShortDescription string    `json:"shortDescription" yaml:"shortDescription"`
	LongDescription  string    `json:"longDescription" yaml:"longDescription"`
	Price            float64   `json:"price" yaml:"price"`
	Capacity         int       `json:"capacity" yaml:"capacity"`
	Type             string    `json:"type" yaml:"type"`
	CreatedAt        time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"-"`
}
