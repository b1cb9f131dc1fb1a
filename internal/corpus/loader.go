// Package corpus loads the job dataset artifact and normalizes it into a read-only corpus.
package corpus

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"jobmarket/internal/domain"
	"jobmarket/internal/schemas"
)

// DefaultTable is the SQLite table holding job rows.
const DefaultTable = "jobs"

// ErrUnsupportedFormat is returned for artifacts whose extension is not recognised.
var ErrUnsupportedFormat = errors.New("unsupported corpus format")

// Loader reads raw job rows from a dataset artifact.
type Loader struct {
	// Table is the SQLite table name; DefaultTable when empty.
	Table string
}

// Load reads the artifact at path. The format follows the file extension:
// .json (array of records), .csv (with header) or .db/.sqlite/.sqlite3.
func (l Loader) Load(ctx context.Context, path string) ([]domain.RawJob, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".csv":
		return loadCSV(path)
	case ".db", ".sqlite", ".sqlite3":
		table := l.Table
		if table == "" {
			table = DefaultTable
		}
		return loadSQLite(ctx, path, table)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func loadJSON(path string) ([]domain.RawJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.Corpus, data); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	var rows []domain.RawJob
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	return rows, nil
}

func loadCSV(path string) ([]domain.RawJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read corpus header %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("corpus %s: missing title column", path)
	}

	field := func(rec []string, name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return rec[i], true
	}

	var rows []domain.RawJob
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("corpus %s line %d: %w", path, line, err)
		}
		var row domain.RawJob
		row.Title, _ = field(rec, "title")
		if v, ok := field(rec, "avg_hourly_rate"); ok && !isMissing(v) {
			rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("corpus %s line %d: avg_hourly_rate %q: %w", path, line, v, err)
			}
			if !math.IsNaN(rate) {
				row.AvgHourlyRate = &rate
			}
		}
		if v, ok := field(rec, "country"); ok && !isMissing(v) {
			row.Country = &v
		}
		if v, ok := field(rec, "job_type"); ok && !isMissing(v) {
			row.JobType = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isMissing(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "null", "none", "n/a":
		return true
	}
	return false
}

func loadSQLite(ctx context.Context, path, table string) ([]domain.RawJob, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer db.Close()

	present, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	if !present["title"] {
		return nil, fmt.Errorf("corpus %s: table %s has no title column", path, table)
	}
	col := func(name string) string {
		if present[name] {
			return name
		}
		return "NULL"
	}
	query := fmt.Sprintf(`SELECT title, %s, %s, %s FROM %q ORDER BY rowid`,
		col("avg_hourly_rate"), col("country"), col("job_type"), table)

	rs, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query corpus %s: %w", path, err)
	}
	defer rs.Close()

	var rows []domain.RawJob
	for rs.Next() {
		var (
			title   sql.NullString
			rate    sql.NullFloat64
			country sql.NullString
			jobType sql.NullString
		)
		if err := rs.Scan(&title, &rate, &country, &jobType); err != nil {
			return nil, fmt.Errorf("scan corpus %s: %w", path, err)
		}
		row := domain.RawJob{Title: title.String}
		if rate.Valid && !math.IsNaN(rate.Float64) {
			v := rate.Float64
			row.AvgHourlyRate = &v
		}
		if country.Valid {
			v := country.String
			row.Country = &v
		}
		if jobType.Valid {
			v := jobType.String
			row.JobType = &v
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return rows, nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rs, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	cols := make(map[string]bool)
	for rs.Next() {
		var name string
		if err := rs.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return cols, nil
}
