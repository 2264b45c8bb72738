package model

// Category is a user-owned grouping of links. Identity is immutable once
// created; only the name can change.
type Category struct {
	ID      string
	Name    string
	OwnerID string
}
