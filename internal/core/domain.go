package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const dateLayout = "2006-01-02"

type (
	// Kind classifies a transaction. Only Income and Expense are valid.
	Kind string

	// Date is a calendar day. The time part is always UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		UserID      string
		CategoryID  *string // nil means uncategorized
		Kind        Kind
		Amount      Money
		Date        Date
		Description string
		CreatedAt   time.Time
	}

	Category struct {
		ID        string
		UserID    string
		Name      string
		Color     string // #RRGGBB
		Budget    Money  // monthly planning figure, zero means no budget
		CreatedAt time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrEmptyUserID      = errors.New("empty user id")
	ErrNotFound         = errors.New("not found")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidationError reports which field of an entity broke the contract.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// ParseKind accepts "income" or "expense", case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", invalid("kind", ErrInvalidKind)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (k Kind) String() string {
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t, keeping the calendar day t shows in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, invalid("date", ErrInvalidDate)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d is a later calendar day than o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return invalid("user_id", ErrEmptyUserID)
	}
	if !t.Kind.Valid() {
		return invalid("kind", ErrInvalidKind)
	}
	if err := t.Amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	if err := t.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	if strings.TrimSpace(t.Description) == "" {
		return invalid("description", ErrEmptyDescription)
	}
	if len(t.Description) > 200 {
		return invalid("description", errors.New("description too long (max 200 characters)"))
	}
	if t.CategoryID != nil && strings.TrimSpace(*t.CategoryID) == "" {
		return invalid("category_id", errors.New("category id must be omitted or non-empty"))
	}
	return nil
}

// HasCategory reports whether t references the category id.
func (t Transaction) HasCategory(id string) bool {
	return t.CategoryID != nil && *t.CategoryID == id
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return invalid("user_id", ErrEmptyUserID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if len(c.Name) > 100 {
		return invalid("name", errors.New("name too long (max 100 characters)"))
	}
	if !hexColor.MatchString(c.Color) {
		return invalid("color", ErrInvalidColor)
	}
	if c.Budget.Cents < 0 {
		return invalid("budget", ErrInvalidBudget)
	}
	return nil
}

// Ref returns a pointer suitable for Transaction.CategoryID; an empty id yields nil.
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
