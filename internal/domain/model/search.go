package model

// SearchResults holds the outcome of one combined backend query. Results
// live apart from the bucket projection and are never merged into it.
type SearchResults struct {
	Links      []Link
	Categories []Category
}
