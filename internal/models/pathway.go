package models

import "time"

// Pathway groups courses into a study track. Created lazily on first
// reference and outlives any single course.
type Pathway struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	NameKey   string    `db:"name_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
