package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

const maxBodyBytes = 64 << 10

// badRequestError marks a body that could not be decoded at all.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// amountInput accepts an amount as a JSON number or a string, so "12,50"
// is as valid as 12.5.
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountInput(s)
		return nil
	}
	if string(b) == "null" {
		*a = ""
		return nil
	}
	*a = amountInput(b)
	return nil
}

type transactionRequest struct {
	Kind        string      `json:"kind"`
	Amount      amountInput `json:"amount"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	CategoryID  *string     `json:"category_id"`
}

type categoryRequest struct {
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Budget amountInput `json:"budget"`
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields
// and oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &badRequestError{msg: "request body too large"}
		case errors.Is(err, io.EOF):
			return &badRequestError{msg: "request body is empty"}
		default:
			return &badRequestError{msg: fmt.Sprintf("invalid JSON body: %v", err)}
		}
	}
	if dec.More() {
		return &badRequestError{msg: "request body must contain a single JSON object"}
	}
	return nil
}

func (req transactionRequest) hasDate() bool {
	return strings.TrimSpace(req.Date) != ""
}

// toTransaction converts the request into a transaction owned by userID.
// An omitted date falls back to fallback.
func (req transactionRequest) toTransaction(userID string, fallback core.Date) (core.Transaction, error) {
	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(string(req.Amount))
	if err != nil {
		return core.Transaction{}, err
	}
	date := fallback
	if req.hasDate() {
		if date, err = core.ParseDate(req.Date); err != nil {
			return core.Transaction{}, err
		}
	}

	var categoryID *string
	if req.CategoryID != nil {
		if id := sanitizeInput(*req.CategoryID); id != "" {
			categoryID = core.Ref(id)
		}
	}

	return core.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Kind:        kind,
		Amount:      amount,
		Date:        date,
		Description: sanitizeInput(req.Description),
	}, nil
}

// toCategory converts the request into a category owned by userID. An
// omitted budget means no budget.
func (req categoryRequest) toCategory(userID string) (core.Category, error) {
	budget := core.Money{}
	if b := string(req.Budget); strings.TrimSpace(b) != "" {
		m, err := core.ParseAmount(b)
		if err != nil {
			return core.Category{}, &core.ValidationError{Field: "budget", Err: core.ErrInvalidBudget}
		}
		budget = m
	}
	return core.Category{
		UserID: userID,
		Name:   sanitizeInput(req.Name),
		Color:  strings.TrimSpace(req.Color),
		Budget: budget,
	}, nil
}

// parseTransactionFilter reads ?kind= and ?q= from the query string.
func parseTransactionFilter(r *http.Request) (services.TransactionFilter, error) {
	q := r.URL.Query()
	f := services.TransactionFilter{Query: sanitizeInput(q.Get("q"))}
	if k := strings.TrimSpace(q.Get("kind")); k != "" {
		kind, err := core.ParseKind(k)
		if err != nil {
			return services.TransactionFilter{}, err
		}
		f.Kind = kind
	}
	return f, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

// monthLabel is the display label for a month bucket, e.g. "Jan".
func monthLabel(m time.Month) string {
	return m.String()[:3]
}
