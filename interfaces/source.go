package interfaces

// Source tells the caller where a resolved value came from.
// Anything other than SourceFresh is degraded data.
type Source string

const (
	// SourceFresh is a fresh cache hit or a successful upstream fetch
	SourceFresh Source = "fresh"
	// SourceStale is an expired cache entry served because the refresh failed
	SourceStale Source = "stale"
	// SourceFallback is the compiled-in catalog
	SourceFallback Source = "fallback"
	// SourceSynthetic is placeholder data with no relation to real prices
	SourceSynthetic Source = "synthetic"
)

func (s Source) String() string {
	return string(s)
}

// Degraded reports whether the value is anything but fresh upstream truth
func (s Source) Degraded() bool {
	return s != SourceFresh
}
