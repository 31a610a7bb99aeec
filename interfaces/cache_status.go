package interfaces

// CacheStatus reports how much of a batch was answered from cache
type CacheStatus string

const (
	CacheStatusFull    CacheStatus = "full"
	CacheStatusPartial CacheStatus = "partial"
	CacheStatusMiss    CacheStatus = "miss"
)

func (cs CacheStatus) String() string {
	return string(cs)
}

// CacheStatusFromHits classifies a batch of total lookups of which hits
// were answered from cache. An empty batch counts as full.
func CacheStatusFromHits(hits, total int) CacheStatus {
	switch {
	case hits >= total:
		return CacheStatusFull
	case hits <= 0:
		return CacheStatusMiss
	default:
		return CacheStatusPartial
	}
}
