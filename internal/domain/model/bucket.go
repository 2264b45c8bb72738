package model

// Bucket keys partition the link projection. Every category id is a bucket
// key; two synthetic buckets exist alongside them.
const (
	// BucketAll is the aggregate of every categorized and uncategorized
	// link. It is fetched from the backend independently, never derived
	// from the per-category buckets.
	BucketAll = "all"

	// BucketUncategorized holds links whose category id is null or
	// unresolved.
	BucketUncategorized = "uncategorized"
)

// BucketForCategory maps an optional category id to its bucket key.
func BucketForCategory(categoryID string) string {
	if categoryID == "" {
		return BucketUncategorized
	}
	return categoryID
}
