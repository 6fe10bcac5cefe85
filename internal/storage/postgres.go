package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expenses/internal/core"

	_ "github.com/lib/pq"
)

// PostgresStore persists expenses in PostgreSQL using the schema the
// table has always had: a serial id, a numeric(6,2) amount with a
// positivity check, and a plain date column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runPostgresMigrations(databaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// ensureSchema checks information_schema for the expenses table directly.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = 'expenses'
		)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("probe schema: %w", err)
	}
	if !exists {
		return errors.New("expenses table missing after migration")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const pgSelectColumns = `SELECT id, amount::text, memo, created_on FROM expenses`

func (s *PostgresStore) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, pgSelectColumns+` ORDER BY created_on, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collectPGRows(rows)
}

func (s *PostgresStore) Search(ctx context.Context, term string) ([]core.Expense, error) {
	// position over lowered text sidesteps LIKE wildcard escaping.
	rows, err := s.db.QueryContext(ctx,
		pgSelectColumns+` WHERE position(lower($1) in lower(memo)) > 0 ORDER BY created_on, id`, term)
	if err != nil {
		return nil, fmt.Errorf("search expenses: %w", err)
	}
	return collectPGRows(rows)
}

func (s *PostgresStore) Insert(ctx context.Context, amount core.Money, memo string, createdOn core.Date) (core.Expense, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO expenses (amount, memo, created_on) VALUES ($1::numeric, $2, $3) RETURNING id`,
		amount.String(), memo, createdOn.Time).Scan(&id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	e := core.Expense{ID: id, Amount: amount, Memo: memo, CreatedOn: createdOn}
	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"memo", e.Memo,
		"amount_cents", e.Amount.Cents,
		"created_on", e.CreatedOn.String())
	return e, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) (core.Expense, error) {
	e, err := scanPGRow(s.db.QueryRowContext(ctx, pgSelectColumns+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNoExpense
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return e, nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("delete all expenses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	slog.InfoContext(ctx, "All expenses deleted", "count", n)
	return n, nil
}

func scanPGRow(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		amount    string
		createdOn time.Time
	)
	if err := row.Scan(&e.ID, &amount, &e.Memo, &createdOn); err != nil {
		return core.Expense{}, err
	}
	m, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	e.Amount = m
	e.CreatedOn = core.NewDate(createdOn.Year(), int(createdOn.Month()), createdOn.Day())
	return e, nil
}

func collectPGRows(rows *sql.Rows) ([]core.Expense, error) {
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanPGRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
