package domain

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseBucketUnit(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"day", "week", "month"} {
		if _, err := ParseBucketUnit(s); err != nil {
			t.Errorf("expected %q to parse, got %v", s, err)
		}
	}

	if _, err := ParseBucketUnit("year"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestBucketUnit_Truncate(t *testing.T) {
	t.Parallel()

	// Thursday
	ts := time.Date(2024, time.March, 14, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		unit BucketUnit
		want time.Time
	}{
		{BucketDay, day(2024, time.March, 14)},
		{BucketWeek, day(2024, time.March, 11)},
		{BucketMonth, day(2024, time.March, 1)},
	}

	for _, tt := range tests {
		if got := tt.unit.Truncate(ts); !got.Equal(tt.want) {
			t.Errorf("%s: expected %s, got %s", tt.unit, tt.want, got)
		}
	}

	sunday := day(2024, time.March, 17)
	if got := BucketWeek.Truncate(sunday); !got.Equal(day(2024, time.March, 11)) {
		t.Errorf("expected Sunday to fall in the week starting Monday 11th, got %s", got)
	}
}

func TestBuildTrend_RunningTotals(t *testing.T) {
	t.Parallel()

	usd := Currency{Code: "USD", MinorUnits: 2}
	eur := Currency{Code: "EUR", MinorUnits: 2}

	sums := []DailySum{
		{Date: day(2024, time.March, 20), Currency: usd, Amount: 300},
		{Date: day(2024, time.January, 5), Currency: usd, Amount: 1000},
		{Date: day(2024, time.January, 20), Currency: usd, Amount: -200},
		{Date: day(2024, time.February, 1), Currency: eur, Amount: 50},
	}

	points := BuildTrend(sums, BucketMonth, time.Time{})

	want := []TrendPoint{
		{BucketStart: day(2024, time.January, 1), Currency: usd, Amount: 800, RunningTotal: 800},
		{BucketStart: day(2024, time.February, 1), Currency: eur, Amount: 50, RunningTotal: 50},
		{BucketStart: day(2024, time.March, 1), Currency: usd, Amount: 300, RunningTotal: 1100},
	}

	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d: %+v", len(want), len(points), points)
	}

	for i := range want {
		if !points[i].BucketStart.Equal(want[i].BucketStart) ||
			points[i].Currency.Code != want[i].Currency.Code ||
			points[i].Amount != want[i].Amount ||
			points[i].RunningTotal != want[i].RunningTotal {
			t.Errorf("point %d: expected %+v, got %+v", i, want[i], points[i])
		}
	}
}

func TestBuildTrend_WindowKeepsCumulativeBase(t *testing.T) {
	t.Parallel()

	usd := Currency{Code: "USD", MinorUnits: 2}
	now := day(2024, time.June, 15)

	sums := []DailySum{
		{Date: day(2022, time.February, 1), Currency: usd, Amount: 5000},
		{Date: day(2023, time.May, 30), Currency: usd, Amount: 100},
		{Date: day(2024, time.June, 10), Currency: usd, Amount: -600},
	}

	points := BuildTrend(sums, BucketMonth, BucketMonth.WindowStart(now))

	if len(points) != 1 {
		t.Fatalf("expected 1 visible point, got %+v", points)
	}

	if points[0].RunningTotal != 4500 {
		t.Errorf("expected running total 4500 including history, got %d", points[0].RunningTotal)
	}
}

func TestBuildTrend_RunningTotalProperty(t *testing.T) {
	t.Parallel()

	usd := Currency{Code: "USD", MinorUnits: 2}

	var sums []DailySum
	for i := 0; i < 60; i++ {
		sums = append(sums, DailySum{
			Date:     day(2024, time.January, 1).AddDate(0, 0, i*3),
			Currency: usd,
			Amount:   int64(i*37%101) - 50,
		})
	}

	for _, unit := range []BucketUnit{BucketDay, BucketWeek, BucketMonth} {
		points := BuildTrend(sums, unit, time.Time{})

		var prev int64
		for i, p := range points {
			if p.RunningTotal != prev+p.Amount {
				t.Fatalf("%s point %d: running %d != previous %d + own %d", unit, i, p.RunningTotal, prev, p.Amount)
			}

			prev = p.RunningTotal
		}
	}
}

func TestBuildTrend_Empty(t *testing.T) {
	t.Parallel()

	if points := BuildTrend(nil, BucketDay, time.Time{}); len(points) != 0 {
		t.Fatalf("expected no points, got %+v", points)
	}
}
