package domain

import (
	"fmt"
	"sort"
	"time"
)

// TrendRetention bounds the visible part of a trend series.
const TrendRetention = 1 // years

// BucketUnit is the width of a trend bucket.
type BucketUnit string

const (
	BucketDay   BucketUnit = "day"
	BucketWeek  BucketUnit = "week"
	BucketMonth BucketUnit = "month"
)

// ParseBucketUnit parses "day", "week" or "month".
func ParseBucketUnit(s string) (BucketUnit, error) {
	switch u := BucketUnit(s); u {
	case BucketDay, BucketWeek, BucketMonth:
		return u, nil
	default:
		return "", &ValidationError{Field: "interval", Reason: fmt.Sprintf("unknown interval %q", s)}
	}
}

// Truncate returns the start of the bucket containing t, in UTC. Weeks start on Monday.
func (u BucketUnit) Truncate(t time.Time) time.Time {
	day := DateOnly(t)

	switch u {
	case BucketWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case BucketMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// WindowStart is the earliest bucket start shown for a trend computed at now.
func (u BucketUnit) WindowStart(now time.Time) time.Time {
	return u.Truncate(now.AddDate(-TrendRetention, 0, 0))
}

// DateOnly drops the time component of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailySum is the net amount of one currency on one date.
type DailySum struct {
	Date     time.Time
	Currency Currency
	Amount   int64
}

// TrendPoint is one (bucket, currency) sample of a running balance.
type TrendPoint struct {
	BucketStart  time.Time
	Currency     Currency
	Amount       int64 // this bucket's own net contribution
	RunningTotal int64
}

// BuildTrend groups sums into buckets, folds a running total per currency in bucket
// order, then drops buckets that start before windowStart. Filtering happens after
// the fold so the visible series keeps its cumulative base. Empty buckets are not
// synthesized.
func BuildTrend(sums []DailySum, unit BucketUnit, windowStart time.Time) []TrendPoint {
	type key struct {
		bucket time.Time
		code   string
	}

	buckets := make(map[key]*TrendPoint)
	for _, s := range sums {
		k := key{bucket: unit.Truncate(s.Date), code: s.Currency.Code}

		p, ok := buckets[k]
		if !ok {
			p = &TrendPoint{BucketStart: k.bucket, Currency: s.Currency}
			buckets[k] = p
		}

		p.Amount += s.Amount
	}

	points := make([]*TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		if !points[i].BucketStart.Equal(points[j].BucketStart) {
			return points[i].BucketStart.Before(points[j].BucketStart)
		}
		return points[i].Currency.Code < points[j].Currency.Code
	})

	running := make(map[string]int64)
	out := make([]TrendPoint, 0, len(points))

	for _, p := range points {
		running[p.Currency.Code] += p.Amount
		p.RunningTotal = running[p.Currency.Code]

		if p.BucketStart.Before(windowStart) {
			continue
		}

		out = append(out, *p)
	}

	return out
}
