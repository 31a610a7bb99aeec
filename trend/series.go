package trend

import (
	"math/rand"
	"sort"
	"time"

	"github.com/status-im/crypto-converter/interfaces"
)

// Synthetic values fall in [SyntheticMin, SyntheticMin+SyntheticSpread)
const (
	SyntheticMin    = 10000.0
	SyntheticSpread = 5000.0
)

// BuildSeries converts raw upstream samples into an ascending series with at
// most one point per hour (the last sample of that hour), keeping the most
// recent limit points
func BuildSeries(raw []interfaces.RawPoint, limit int) []interfaces.TrendPoint {
	points := make([]interfaces.TrendPoint, 0, len(raw))
	for _, p := range raw {
		points = append(points, interfaces.TrendPoint{
			Time:  p.TimestampMs / 1000,
			Value: p.Value,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time < points[j].Time
	})

	bucketed := points[:0]
	for _, p := range points {
		n := len(bucketed)
		if n > 0 && hourOf(bucketed[n-1].Time) == hourOf(p.Time) {
			bucketed[n-1] = p
			continue
		}
		bucketed = append(bucketed, p)
	}

	if limit > 0 && len(bucketed) > limit {
		bucketed = bucketed[len(bucketed)-limit:]
	}
	return bucketed
}

// SyntheticSeries returns n hourly points ending at the hour boundary at or
// before now. Values carry no information.
func SyntheticSeries(now time.Time, n int, random func() float64) []interfaces.TrendPoint {
	if random == nil {
		random = rand.Float64
	}
	end := now.Truncate(time.Hour).Unix()

	points := make([]interfaces.TrendPoint, n)
	for i := range points {
		points[i] = interfaces.TrendPoint{
			Time:  end - int64(n-1-i)*3600,
			Value: SyntheticMin + random()*SyntheticSpread,
		}
	}
	return points
}

func hourOf(unixSeconds int64) int64 {
	if unixSeconds < 0 {
		return (unixSeconds - 3599) / 3600
	}
	return unixSeconds / 3600
}
