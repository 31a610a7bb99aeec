package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheStatusFromHits(t *testing.T) {
	tests := []struct {
		hits, total int
		want        CacheStatus
	}{
		{hits: 3, total: 3, want: CacheStatusFull},
		{hits: 0, total: 0, want: CacheStatusFull},
		{hits: 1, total: 3, want: CacheStatusPartial},
		{hits: 0, total: 3, want: CacheStatusMiss},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CacheStatusFromHits(tt.hits, tt.total), "%d of %d", tt.hits, tt.total)
	}
}
