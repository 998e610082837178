package models

import "time"

// Professor is an independently owned entity referenced by courses.
// NameKey and EmailKey hold the normalized natural keys the storage
// layer enforces uniqueness on.
type Professor struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	NameKey   string    `db:"name_key" json:"-"`
	Email     string    `db:"email" json:"email"`
	EmailKey  string    `db:"email_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
