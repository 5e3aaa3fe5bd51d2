package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Row types mirror the table columns.
type (
	CategoryRow struct {
		ID          string
		UserID      string
		Name        string
		Color       string
		BudgetCents int64
		CreatedAt   int64
	}

	TransactionRow struct {
		ID          string
		UserID      string
		CategoryID  sql.NullString
		Kind        string
		AmountCents int64
		Date        string
		Description string
		CreatedAt   int64
	}
)

const categoryColumns = `id, user_id, name, color, budget_cents, created_at`

const transactionColumns = `id, user_id, category_id, kind, amount_cents, date, description, created_at`

func scanCategory(row interface{ Scan(...interface{}) error }) (CategoryRow, error) {
	var c CategoryRow
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.BudgetCents, &c.CreatedAt)
	return c, err
}

func scanTransaction(row interface{ Scan(...interface{}) error }) (TransactionRow, error) {
	var t TransactionRow
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Kind, &t.AmountCents, &t.Date, &t.Description, &t.CreatedAt)
	return t, err
}

const listCategories = `SELECT ` + categoryColumns + ` FROM categories
WHERE user_id = ?
ORDER BY created_at ASC, rowid ASC`

func (q *Queries) ListCategories(ctx context.Context, userID string) ([]CategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategories, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryRow
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getCategory = `SELECT ` + categoryColumns + ` FROM categories WHERE id = ? AND user_id = ?`

func (q *Queries) GetCategory(ctx context.Context, id, userID string) (CategoryRow, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategory, id, userID))
}

const insertCategory = `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertCategory(ctx context.Context, c CategoryRow) error {
	_, err := q.db.ExecContext(ctx, insertCategory, c.ID, c.UserID, c.Name, c.Color, c.BudgetCents, c.CreatedAt)
	return err
}

const updateCategory = `UPDATE categories SET name = ?, color = ?, budget_cents = ?
WHERE id = ? AND user_id = ?`

func (q *Queries) UpdateCategory(ctx context.Context, c CategoryRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCategory, c.Name, c.Color, c.BudgetCents, c.ID, c.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteCategory = `DELETE FROM categories WHERE id = ? AND user_id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id, userID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCategory, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const uncategorizeTransactions = `UPDATE transactions SET category_id = NULL
WHERE category_id = ? AND user_id = ?`

func (q *Queries) UncategorizeTransactions(ctx context.Context, categoryID, userID string) error {
	_, err := q.db.ExecContext(ctx, uncategorizeTransactions, categoryID, userID)
	return err
}

const categoryExists = `SELECT EXISTS (SELECT 1 FROM categories WHERE id = ? AND user_id = ?)`

func (q *Queries) CategoryExists(ctx context.Context, id, userID string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, categoryExists, id, userID).Scan(&exists)
	return exists, err
}

const listTransactions = `SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = ?
ORDER BY date DESC, created_at DESC, rowid DESC`

func (q *Queries) ListTransactions(ctx context.Context, userID string) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND user_id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id, userID string) (TransactionRow, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id, userID))
}

const insertTransaction = `INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, t TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		t.ID, t.UserID, t.CategoryID, t.Kind, t.AmountCents, t.Date, t.Description, t.CreatedAt)
	return err
}

const updateTransaction = `UPDATE transactions
SET category_id = ?, kind = ?, amount_cents = ?, date = ?, description = ?
WHERE id = ? AND user_id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, t TransactionRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		t.CategoryID, t.Kind, t.AmountCents, t.Date, t.Description, t.ID, t.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ? AND user_id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id, userID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
