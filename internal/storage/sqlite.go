package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expenses/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists expenses in a local SQLite database with amounts
// held as integer cents.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// ensureSchema probes the catalog for the expenses table itself rather
// than a sentinel name. Migrations have already run at this point, so a
// missing table means the database is unusable.
func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'expenses'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("expenses table missing after migration")
	}
	if err != nil {
		return fmt.Errorf("probe schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const sqliteSelectColumns = `SELECT id, amount_cents, memo, created_on FROM expenses`

func (s *SQLiteStore) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectColumns+` ORDER BY created_on, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collectSQLiteRows(rows)
}

func (s *SQLiteStore) Search(ctx context.Context, term string) ([]core.Expense, error) {
	// instr over lowered text sidesteps LIKE wildcard escaping.
	rows, err := s.db.QueryContext(ctx,
		sqliteSelectColumns+` WHERE instr(lower(memo), lower(?)) > 0 ORDER BY created_on, id`, term)
	if err != nil {
		return nil, fmt.Errorf("search expenses: %w", err)
	}
	return collectSQLiteRows(rows)
}

func (s *SQLiteStore) Insert(ctx context.Context, amount core.Money, memo string, createdOn core.Date) (core.Expense, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO expenses (amount_cents, memo, created_on) VALUES (?, ?, ?) RETURNING id`,
		amount.Cents, memo, createdOn.String()).Scan(&id)
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

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (core.Expense, error) {
	e, err := scanSQLiteRow(s.db.QueryRowContext(ctx, sqliteSelectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNoExpense
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return core.Expense{}, fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return e, nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) (int64, error) {
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRow(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		createdOn string
	)
	if err := row.Scan(&e.ID, &e.Amount.Cents, &e.Memo, &createdOn); err != nil {
		return core.Expense{}, err
	}
	d, err := core.ParseDate(createdOn)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", createdOn, err)
	}
	e.CreatedOn = d
	return e, nil
}

func collectSQLiteRows(rows *sql.Rows) ([]core.Expense, error) {
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanSQLiteRow(rows)
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
