package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no time component.
	Date struct {
		time.Time
	}

	// Money is a fixed-point amount denominated in cents.
	Money struct {
		Cents int64
	}

	// Expense is one recorded monetary outlay.
	Expense struct {
		ID        int64
		Amount    Money
		Memo      string
		CreatedOn Date
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyMemo     = errors.New("empty memo")
)

// DateLayout is the wire and display format for expense dates.
const DateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Date {
	y, m, d := time.Now().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD, always 10 characters.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Memo)) == 0 {
		return ErrEmptyMemo
	}
	return e.CreatedOn.Validate()
}
