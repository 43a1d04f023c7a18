package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for calendar dates (no time of day).
const DateLayout = "2006-01-02"

// Date is a calendar day. It serializes as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// DaysUntil counts whole days from `from`'s calendar day to d.
func (d Date) DaysUntil(from time.Time) int {
	return int(d.Time.Sub(DateOf(from).Time).Hours() / 24)
}
