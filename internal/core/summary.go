package core

import (
	"sort"
	"time"
)

type (
	// CategoryAmount is an amount aggregated by category label.
	CategoryAmount struct {
		Name   string
		Amount Money
	}

	// WeekdayAmount is an amount aggregated by day-of-week name.
	WeekdayAmount struct {
		Day    string
		Amount Money
	}

	// DailyAmount is an amount aggregated by calendar date. The daily
	// series is sparse: dates with no transactions are absent.
	DailyAmount struct {
		Date   Date
		Amount Money
	}

	// Summary holds all aggregate metrics for one filtered set. It is
	// recomputed per query and never persisted. An empty filtered set
	// yields defined zeros everywhere, never NaN, so downstream
	// arithmetic stays safe.
	Summary struct {
		Total   Money
		Count   int
		DaySpan int // inclusive days between earliest and latest date; 0 when empty

		AvgPerDay         float64 // dollars
		AvgPerTransaction float64 // dollars

		ByCategory []CategoryAmount // sorted by sum desc, then name asc
		ByWeekday  []WeekdayAmount  // Monday..Sunday order, absent days omitted
		Daily      []DailyAmount    // sorted by date asc
	}
)

// weekdayOrder fixes chart ordering for the weekday breakdown.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Summarize computes the aggregate metrics for a filtered set. DaySpan
// is (max date - min date) + 1, so a single-day set has span 1 and the
// per-day average never divides by zero once the set is non-empty.
func Summarize(records []Record) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	byCategory := make(map[string]int64)
	byWeekday := make(map[time.Weekday]int64)
	byDate := make(map[Date]int64)

	minDate, maxDate := records[0].Date, records[0].Date
	for _, r := range records {
		s.Total = s.Total.Add(r.Amount)
		byCategory[r.Category] += r.Amount.Cents
		byWeekday[r.Date.Weekday()] += r.Amount.Cents
		byDate[r.Date] += r.Amount.Cents
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}

	s.Count = len(records)
	s.DaySpan = minDate.DaysUntil(maxDate) + 1
	s.AvgPerDay = s.Total.Dollars() / float64(s.DaySpan)
	s.AvgPerTransaction = s.Total.Dollars() / float64(s.Count)

	for name, cents := range byCategory {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	// Sum descending, name ascending on ties. The tie-break makes
	// TopCategory deterministic: equal sums resolve alphabetically.
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Amount.Cents != s.ByCategory[j].Amount.Cents {
			return s.ByCategory[i].Amount.Cents > s.ByCategory[j].Amount.Cents
		}
		return s.ByCategory[i].Name < s.ByCategory[j].Name
	})

	for _, wd := range weekdayOrder {
		if cents, ok := byWeekday[wd]; ok {
			s.ByWeekday = append(s.ByWeekday, WeekdayAmount{Day: wd.String(), Amount: Money{Cents: cents}})
		}
	}

	for date, cents := range byDate {
		s.Daily = append(s.Daily, DailyAmount{Date: date, Amount: Money{Cents: cents}})
	}
	sort.Slice(s.Daily, func(i, j int) bool {
		return s.Daily[i].Date.Before(s.Daily[j].Date)
	})

	return s
}

// TopCategory returns the category with the largest sum, or false when
// the summary is empty. Ties resolve to the alphabetically first name.
func (s Summary) TopCategory() (string, bool) {
	if len(s.ByCategory) == 0 {
		return "", false
	}
	return s.ByCategory[0].Name, true
}

// CategoryTotal returns the summed amount for one category label, zero
// when the category is absent from the filtered set.
func (s Summary) CategoryTotal(name string) Money {
	for _, c := range s.ByCategory {
		if c.Name == name {
			return c.Amount
		}
	}
	return Money{}
}

// CategoryShare returns the category's fraction of the total, 0 when
// the total is zero.
func (s Summary) CategoryShare(name string) float64 {
	if s.Total.Cents <= 0 {
		return 0
	}
	return float64(s.CategoryTotal(name).Cents) / float64(s.Total.Cents)
}
