package report

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/biaslab/internal/logging"
	"github.com/ppiankov/biaslab/internal/model"
)

const flagsSchema = `
CREATE TABLE IF NOT EXISTS validation_flags (
	wrong_record      INTEGER NOT NULL,
	wrong_goal_diff   INTEGER NOT NULL,
	claims_dominant   INTEGER NOT NULL,
	claims_disastrous INTEGER NOT NULL,
	response_id       TEXT NOT NULL,
	condition_id      TEXT NOT NULL,
	model_name        TEXT NOT NULL,
	any_flag          INTEGER NOT NULL
)`

const ratesSchema = `
CREATE TABLE IF NOT EXISTS fabrication_rates (
	condition_id      TEXT NOT NULL,
	model_name        TEXT NOT NULL,
	wrong_record      REAL NOT NULL,
	wrong_goal_diff   REAL NOT NULL,
	claims_dominant   REAL NOT NULL,
	claims_disastrous REAL NOT NULL,
	any_flag          REAL NOT NULL,
	responses         INTEGER NOT NULL,
	PRIMARY KEY (condition_id, model_name)
)`

// flagRow is the storage shape of a FlagRecord
type flagRow struct {
	WrongRecord      int    `db:"wrong_record"`
	WrongGoalDiff    int    `db:"wrong_goal_diff"`
	ClaimsDominant   int    `db:"claims_dominant"`
	ClaimsDisastrous int    `db:"claims_disastrous"`
	ResponseID       string `db:"response_id"`
	ConditionID      string `db:"condition_id"`
	ModelName        string `db:"model_name"`
	AnyFlag          int    `db:"any_flag"`
}

// SQLiteStore persists results into a SQLite database file
type SQLiteStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WriteValidation replaces the validation_flags and fabrication_rates tables
func (s *SQLiteStore) WriteValidation(flags []model.FlagRecord, rates []model.RateRecord) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DROP TABLE IF EXISTS validation_flags",
		"DROP TABLE IF EXISTS fabrication_rates",
		flagsSchema,
		ratesSchema,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	for _, f := range flags {
		row := flagRow{
			WrongRecord:      bit(f.WrongRecord),
			WrongGoalDiff:    bit(f.WrongGoalDiff),
			ClaimsDominant:   bit(f.ClaimsDominant),
			ClaimsDisastrous: bit(f.ClaimsDisastrous),
			ResponseID:       f.ResponseID,
			ConditionID:      f.ConditionID,
			ModelName:        f.ModelName,
			AnyFlag:          bit(f.AnyFlag()),
		}
		if _, err := tx.NamedExec(`INSERT INTO validation_flags (
			wrong_record, wrong_goal_diff, claims_dominant, claims_disastrous,
			response_id, condition_id, model_name, any_flag
		) VALUES (
			:wrong_record, :wrong_goal_diff, :claims_dominant, :claims_disastrous,
			:response_id, :condition_id, :model_name, :any_flag
		)`, row); err != nil {
			return fmt.Errorf("failed to insert flags for %s: %w", f.ResponseID, err)
		}
	}

	for _, r := range rates {
		if _, err := tx.NamedExec(`INSERT INTO fabrication_rates (
			condition_id, model_name, wrong_record, wrong_goal_diff,
			claims_dominant, claims_disastrous, any_flag, responses
		) VALUES (
			:condition_id, :model_name, :wrong_record, :wrong_goal_diff,
			:claims_dominant, :claims_disastrous, :any_flag, :responses
		)`, r); err != nil {
			return fmt.Errorf("failed to insert rates for (%s, %s): %w", r.ConditionID, r.ModelName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logging.Debug("wrote sqlite validation tables",
		zap.Int("flags", len(flags)), zap.Int("rates", len(rates)))
	return nil
}

// WriteTable replaces a table holding the formatted cells of t as TEXT
func (s *SQLiteStore) WriteTable(t Table) error {
	cols := make([]string, len(t.Header))
	marks := make([]string, len(t.Header))
	for i, h := range t.Header {
		cols[i] = quoteIdent(h) + " TEXT"
		marks[i] = "?"
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	name := quoteIdent(t.Name)
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + name); err != nil {
		return fmt.Errorf("failed to drop %s: %w", t.Name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("failed to create %s: %w", t.Name, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", "))
	for _, row := range t.Rows {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := tx.Exec(insert, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", t.Name, err)
		}
	}

	return tx.Commit()
}

// CountRows returns the number of rows in table
func (s *SQLiteStore) CountRows(table string) (int, error) {
	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM "+quoteIdent(table)); err != nil {
		return 0, err
	}
	return n, nil
}

// Rates reads back the fabrication_rates table ordered by condition and model
func (s *SQLiteStore) Rates() ([]model.RateRecord, error) {
	var rates []model.RateRecord
	err := s.db.Select(&rates, `SELECT condition_id, model_name, wrong_record, wrong_goal_diff,
		claims_dominant, claims_disastrous, any_flag, responses
		FROM fabrication_rates ORDER BY condition_id, model_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to read fabrication rates: %w", err)
	}
	return rates, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
