package domain

import "math/rand/v2"

// Picker returns an index in [0, n). Tests substitute a deterministic one.
type Picker func(n int) int

// RandomPicker picks uniformly at random.
func RandomPicker(n int) int {
	return rand.IntN(n) //nolint:gosec // No need for crypto-grade randomness
}

// Pool is an immutable ordered list fixed at build time.
type Pool[T any] struct {
	items []T
}

// NewPool copies items into a new pool.
func NewPool[T any](items ...T) Pool[T] {
	return Pool[T]{items: append([]T(nil), items...)}
}

// Len returns the number of entries.
func (p Pool[T]) Len() int {
	return len(p.items)
}

// At returns the entry at index i.
func (p Pool[T]) At(i int) T {
	return p.items[i]
}

// Contains reports whether eq matches any entry.
func (p Pool[T]) Contains(eq func(T) bool) bool {
	for _, item := range p.items {
		if eq(item) {
			return true
		}
	}

	return false
}

// Pick returns the entry chosen by pick, or the zero value for an empty pool.
// A nil picker selects uniformly at random.
func (p Pool[T]) Pick(pick Picker) T {
	var zero T
	if len(p.items) == 0 {
		return zero
	}

	if pick == nil {
		pick = RandomPicker
	}

	i := pick(len(p.items))
	if i < 0 || i >= len(p.items) {
		i = 0
	}

	return p.items[i]
}

// FallbackQuotes is used whenever the quote service cannot deliver.
var FallbackQuotes = NewPool(
	Quote{Text: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Author: "Winston Churchill"},
	Quote{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	Quote{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt"},
	Quote{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt"},
	Quote{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius"},
	Quote{Text: "Everything you've ever wanted is on the other side of fear.", Author: "George Addair"},
	Quote{Text: "Your time is limited, don't waste it living someone else's life.", Author: "Steve Jobs"},
	Quote{Text: "The only limit to our realization of tomorrow will be our doubts of today.", Author: "Franklin D. Roosevelt"},
	Quote{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	Quote{Text: "The best way to predict the future is to create it.", Author: "Peter Drucker"},
)

// FallbackImageURLs is used when the photo lookup fails. Entries carry no
// query string; callers append a cache-buster.
var FallbackImageURLs = NewPool(
	"https://images.unsplash.com/photo-1470770841072-f978cf4d019e",
	"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05",
	"https://images.unsplash.com/photo-1441974231531-c6227db76b6e",
	"https://images.unsplash.com/photo-1518655048521-f130df041f66",
	"https://images.unsplash.com/photo-1497250681960-ef046c08a56e",
)

// CuratedImageIDs are known-good photo identifiers for curated mode.
var CuratedImageIDs = NewPool(
	"1470770841072-f978cf4d019e",
	"1470071459604-3b5ec3a7fe05",
	"1441974231531-c6227db76b6e",
	"1518655048521-f130df041f66",
	"1497250681960-ef046c08a56e",
	"1506905925346-21bda4d32df4",
	"1501785888041-af3ef285b470",
	"1469474968028-56623f02e42e",
	"1447752875215-b2761acb3c5d",
	"1433086966358-54859d0ed716",
	"1472214103451-9374bd1c798e",
	"1500530855697-b586d89ba3ee",
	"1426604966848-d7adac402bff",
	"1487958449943-2429e8be8625",
	"1511818966892-d7d671e672a2",
)
