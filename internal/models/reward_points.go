package models

import (
	"fmt"
	"time"
)

// Period is an accrual bucket: a calendar month of a year.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Valid reports whether the period names a real month.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 1
}

// Bounds returns the first and last calendar day of the period.
func (p Period) Bounds() (Date, Date) {
	first := NewDate(p.Year, time.Month(p.Month), 1)
	last := DateOf(first.AddDate(0, 1, -1))
	return first, last
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// RewardPoints is the accrued point total of one customer for one period.
// At most one row exists per (CustomerID, Month, Year).
type RewardPoints struct {
	ID         int64 `json:"id,omitempty"`
	CustomerID int64 `json:"customerId"`
	Points     int64 `json:"points"`
	Month      int   `json:"month"`
	Year       int   `json:"year"`
}

// Period returns the accrual period of the record.
func (r RewardPoints) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}
