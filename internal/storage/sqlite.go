package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the SQLite file that holds a fitted pipeline.
type Store struct {
	db *sql.DB
}

// Create creates a fresh artifact file at path, replacing any existing one.
func Create(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating artifact directory: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing old artifact: %w", err)
	}
	return open(path)
}

// Open opens an existing artifact file. A missing file is an error; the
// predictor never starts without a model.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return open(path)
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Artifact ---

const (
	metaIntercept = "intercept"
	metaSamples   = "samples"
	metaTrainedAt = "trained_at"
)

// SaveArtifact replaces the stored model with a.
func (s *Store) SaveArtifact(a Artifact) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"model_meta", "numeric_columns", "categorical_values", "coefficients"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	meta := map[string]string{
		metaIntercept: strconv.FormatFloat(a.Intercept, 'g', -1, 64),
		metaSamples:   strconv.Itoa(a.Samples),
		metaTrainedAt: a.TrainedAt.UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO model_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("saving %s: %w", k, err)
		}
	}

	for i, c := range a.Numeric {
		if _, err := tx.Exec("INSERT INTO numeric_columns (position, name, mean, std) VALUES (?, ?, ?, ?)",
			i, c.Name, c.Mean, c.Std); err != nil {
			return fmt.Errorf("saving numeric column %q: %w", c.Name, err)
		}
	}

	for i, c := range a.Categorical {
		for j, v := range c.Values {
			if _, err := tx.Exec(`INSERT INTO categorical_values (column_position, column_name, position, value)
				VALUES (?, ?, ?, ?)`, i, c.Name, j, v); err != nil {
				return fmt.Errorf("saving category %q of %q: %w", v, c.Name, err)
			}
		}
	}

	for i, v := range a.Coefficients {
		if _, err := tx.Exec("INSERT INTO coefficients (position, value) VALUES (?, ?)", i, v); err != nil {
			return fmt.Errorf("saving coefficient %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadArtifact reads the stored model. Returns ErrNotFound if the file holds
// no coefficients.
func (s *Store) LoadArtifact() (Artifact, error) {
	var a Artifact

	meta, err := s.loadMeta()
	if err != nil {
		return Artifact{}, err
	}
	if a.Intercept, err = strconv.ParseFloat(meta[metaIntercept], 64); err != nil {
		return Artifact{}, fmt.Errorf("parsing intercept: %w", err)
	}
	if v, ok := meta[metaSamples]; ok {
		a.Samples, _ = strconv.Atoi(v)
	}
	if v, ok := meta[metaTrainedAt]; ok {
		a.TrainedAt, _ = time.Parse(time.RFC3339, v)
	}

	if a.Numeric, err = s.loadNumeric(); err != nil {
		return Artifact{}, err
	}
	if a.Categorical, err = s.loadCategorical(); err != nil {
		return Artifact{}, err
	}
	if a.Coefficients, err = s.loadCoefficients(); err != nil {
		return Artifact{}, err
	}
	if len(a.Coefficients) == 0 {
		return Artifact{}, ErrNotFound
	}
	return a, nil
}

func (s *Store) loadMeta() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM model_meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if _, ok := meta[metaIntercept]; !ok {
		return nil, ErrNotFound
	}
	return meta, nil
}

func (s *Store) loadNumeric() ([]NumericColumn, error) {
	rows, err := s.db.Query("SELECT name, mean, std FROM numeric_columns ORDER BY position ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []NumericColumn
	for rows.Next() {
		var c NumericColumn
		if err := rows.Scan(&c.Name, &c.Mean, &c.Std); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *Store) loadCategorical() ([]CategoricalColumn, error) {
	rows, err := s.db.Query(`SELECT column_position, column_name, value FROM categorical_values
		ORDER BY column_position ASC, position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []CategoricalColumn
	last := -1
	for rows.Next() {
		var pos int
		var name, value string
		if err := rows.Scan(&pos, &name, &value); err != nil {
			return nil, err
		}
		if pos != last {
			cols = append(cols, CategoricalColumn{Name: name})
			last = pos
		}
		cols[len(cols)-1].Values = append(cols[len(cols)-1].Values, value)
	}
	return cols, rows.Err()
}

func (s *Store) loadCoefficients() ([]float64, error) {
	rows, err := s.db.Query("SELECT value FROM coefficients ORDER BY position ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coef []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		coef = append(coef, v)
	}
	return coef, rows.Err()
}
