package domain

import "fmt"

// BackgroundMode selects how background images are obtained.
type BackgroundMode string

const (
	// BackgroundModeRemote looks up a random photo on the photo service.
	BackgroundModeRemote BackgroundMode = "remote"

	// BackgroundModeCurated picks from a fixed pool of image identifiers
	// without any lookup call.
	BackgroundModeCurated BackgroundMode = "curated"
)

// Attribution identifies a photo's creator and source.
type Attribution struct {
	PhotographerName       string
	PhotographerHandle     string
	PhotographerProfileURL string
	PhotoPageURL           string
	SourceHomepageURL      string
}

// BackgroundImage is an image applied behind the quote card.
// Attribution is nil when no per-image metadata is available.
type BackgroundImage struct {
	URL         string
	Attribution *Attribution
}

// IsZero reports whether the image has no URL.
func (b BackgroundImage) IsZero() bool {
	return b.URL == ""
}

// FetchStatus is the outcome of the most recent background fetch.
type FetchStatus int

const (
	// FetchPending means no background fetch has completed yet.
	FetchPending FetchStatus = iota

	// FetchSucceeded means the last fetch returned a remote image.
	FetchSucceeded

	// FetchFailed means the last fetch fell back to the static pool.
	FetchFailed
)

// String returns the lowercase name of the status.
func (s FetchStatus) String() string {
	switch s {
	case FetchPending:
		return "pending"
	case FetchSucceeded:
		return "succeeded"
	case FetchFailed:
		return "failed"
	default:
		return fmt.Sprintf("FetchStatus(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s FetchStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// BackgroundResult is the explicit outcome of a background fetch.
// Image is always usable: on failure it holds the fallback image and Err
// carries the reason.
type BackgroundResult struct {
	Image  BackgroundImage
	Status FetchStatus
	Err    error
}

// Succeeded builds a result for a remotely obtained image.
func Succeeded(img BackgroundImage) BackgroundResult {
	return BackgroundResult{Image: img, Status: FetchSucceeded}
}

// FellBack builds a result for a fallback image and the failure that caused it.
func FellBack(img BackgroundImage, err error) BackgroundResult {
	return BackgroundResult{Image: img, Status: FetchFailed, Err: err}
}

// PlaceholderAttribution credits the photo service itself when no
// per-photo metadata is available, such as after a failed lookup.
func PlaceholderAttribution(homepage string) *Attribution {
	return &Attribution{
		PhotographerName:       "Unsplash Contributor",
		PhotographerHandle:     "unsplash",
		PhotographerProfileURL: homepage,
		PhotoPageURL:           homepage,
		SourceHomepageURL:      homepage,
	}
}
