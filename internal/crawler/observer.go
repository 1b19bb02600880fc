package crawler

import "time"

// Observer receives crawl progress events from the engine. The engine
// itself never writes to the console; callers that want progress output
// install an Observer.
//
// Callbacks may be invoked concurrently from workers in the same batch
// and must be safe for concurrent use.
type Observer interface {
	// OnFetchStart is called before a page fetch is issued.
	OnFetchStart(url string, depth int)

	// OnFetchComplete is called after a page's body has been read and its
	// checks have run.
	OnFetchComplete(url string, status int, elapsed time.Duration)

	// OnPageError is called when a page fetch fails or returns a
	// non-success status.
	OnPageError(url string, err error)
}

// NopObserver is an Observer that ignores all events. It is the engine
// default.
type NopObserver struct{}

// OnFetchStart implements Observer.
func (NopObserver) OnFetchStart(string, int) {}

// OnFetchComplete implements Observer.
func (NopObserver) OnFetchComplete(string, int, time.Duration) {}

// OnPageError implements Observer.
func (NopObserver) OnPageError(string, error) {}
