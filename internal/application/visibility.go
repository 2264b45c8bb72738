package application

import (
	"sync"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

// Visibility window sizing. Windows start at DefaultWindow and grow by
// windowStep per "see more" action; they never shrink, and a bucket reload
// does not reset them.
const (
	DefaultWindow = 6
	windowStep    = 6
)

// Visibility tracks per-bucket visible-window counters over a Board. It is
// layered over whatever the board currently holds, independent of fetch
// state: Visible recomputes from live content, so it stays correct when a
// bucket shrinks after a delete or grows after a reload.
type Visibility struct {
	board *Board

	mu      sync.Mutex
	windows map[string]int
}

// NewVisibility creates a controller over the board with no windows set.
func NewVisibility(board *Board) *Visibility {
	return &Visibility{
		board:   board,
		windows: make(map[string]int),
	}
}

// Window returns the bucket's current window size (DefaultWindow if unset).
func (v *Visibility) Window(bucket string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.window(bucket)
}

// SeeMore widens the bucket's window by one step.
func (v *Visibility) SeeMore(bucket string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.windows[bucket] = v.window(bucket) + windowStep
}

// Visible returns the first min(window, len) links of the bucket's current
// content. Short buckets are sliced, never over-indexed; an unloaded bucket
// yields an empty slice.
func (v *Visibility) Visible(bucket string) []model.Link {
	links := v.board.Bucket(bucket)

	v.mu.Lock()
	n := v.window(bucket)
	v.mu.Unlock()

	if n > len(links) {
		n = len(links)
	}
	return links[:n]
}

func (v *Visibility) window(bucket string) int {
	if n, ok := v.windows[bucket]; ok {
		return n
	}
	return DefaultWindow
}
