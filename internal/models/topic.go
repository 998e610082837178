package models

import "time"

// Topic classifies courses. The base model allows exactly one topic per
// course.
type Topic struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	NameKey   string    `db:"name_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
