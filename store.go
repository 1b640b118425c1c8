package eatery

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/eringen/eatery/forms"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("eatery: not found")

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding an imported copy of the content
// database plus the form submission log.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sqlx.Open("sqlite", storeDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("eatery: migrate: %w", err)
	}
	return s, nil
}

// storeDSN applies the pragmas to every pooled connection. WAL lets the
// preview server read while an import writes; the busy timeout makes
// writers wait instead of failing with SQLITE_BUSY.
func storeDSN(path string) string {
	return "file:" + path + "?" + strings.Join([]string{
		"_pragma=journal_mode(WAL)",
		"_pragma=busy_timeout(5000)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=foreign_keys(ON)",
	}, "&")
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(s.db.DB, "migrations")
}

type blogRow struct {
	Blog
	BodyJSON string `db:"body"`
}

type locationRow struct {
	Location
	HoursJSON string `db:"hours"`
}

// ImportContent replaces every blog, location and menu row with c inside a
// single transaction.
func (s *Store) ImportContent(ctx context.Context, c *Content) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"blogs", "locations", "menu_items"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("eatery: clear %s: %w", table, err)
		}
	}

	for _, b := range c.BlogList {
		body, err := json.Marshal(b.Body)
		if err != nil {
			return err
		}
		row := blogRow{Blog: b, BodyJSON: string(body)}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO blogs (slug, title, description, body, city, state, keyword, status, date, latitude, longitude)
			VALUES (:slug, :title, :description, :body, :city, :state, :keyword, :status, :date, :latitude, :longitude)`, row); err != nil {
			return fmt.Errorf("eatery: insert blog %q: %w", b.Slug, err)
		}
	}

	for _, l := range c.LocationList {
		hours, err := json.Marshal(l.Hours)
		if err != nil {
			return err
		}
		if l.Hours == nil {
			hours = []byte("[]")
		}
		row := locationRow{Location: l, HoursJSON: string(hours)}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO locations (id, slug, name, street, city, state, zip, phone, email, status, latitude, longitude, hours, order_url)
			VALUES (:id, :slug, :name, :street, :city, :state, :zip, :phone, :email, :status, :latitude, :longitude, :hours, :order_url)`, row); err != nil {
			return fmt.Errorf("eatery: insert location %d: %w", l.ID, err)
		}
	}

	for _, m := range c.MenuItems {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO menu_items (name, category, calories, protein, fat, carbs, sodium)
			VALUES (:name, :category, :calories, :protein, :fat, :carbs, :sodium)`, m); err != nil {
			return fmt.Errorf("eatery: insert menu item %q: %w", m.Name, err)
		}
	}

	return tx.Commit()
}

const blogColumns = `slug, title, description, body, city, state, keyword, status, date, latitude, longitude`

// Blogs returns every blog ordered by date descending, drafts included.
func (s *Store) Blogs(ctx context.Context) ([]Blog, error) {
	var rows []blogRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+blogColumns+` FROM blogs ORDER BY date DESC, slug ASC`); err != nil {
		return nil, err
	}
	blogs := make([]Blog, 0, len(rows))
	for _, r := range rows {
		b, err := r.decode()
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, nil
}

// GetBlog returns a single blog by slug regardless of status.
func (s *Store) GetBlog(ctx context.Context, slug string) (Blog, error) {
	var row blogRow
	err := s.db.GetContext(ctx, &row, `SELECT `+blogColumns+` FROM blogs WHERE slug = ?`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return Blog{}, ErrNotFound
	}
	if err != nil {
		return Blog{}, err
	}
	return row.decode()
}

func (r blogRow) decode() (Blog, error) {
	b := r.Blog
	if err := json.Unmarshal([]byte(r.BodyJSON), &b.Body); err != nil {
		return Blog{}, fmt.Errorf("eatery: blog %q body: %w", b.Slug, err)
	}
	return b, nil
}

const locationColumns = `id, slug, name, street, city, state, zip, phone, email, status, latitude, longitude, hours, order_url`

// Locations returns every location ordered by ID.
func (s *Store) Locations(ctx context.Context) ([]Location, error) {
	var rows []locationRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+locationColumns+` FROM locations ORDER BY id`); err != nil {
		return nil, err
	}
	locs := make([]Location, 0, len(rows))
	for _, r := range rows {
		l, err := r.decode()
		if err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, nil
}

// GetLocation returns a single location by slug.
func (s *Store) GetLocation(ctx context.Context, slug string) (Location, error) {
	var row locationRow
	err := s.db.GetContext(ctx, &row, `SELECT `+locationColumns+` FROM locations WHERE slug = ?`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	if err != nil {
		return Location{}, err
	}
	return row.decode()
}

func (r locationRow) decode() (Location, error) {
	l := r.Location
	if err := json.Unmarshal([]byte(r.HoursJSON), &l.Hours); err != nil {
		return Location{}, fmt.Errorf("eatery: location %d hours: %w", l.ID, err)
	}
	if len(l.Hours) == 0 {
		l.Hours = nil
	}
	return l, nil
}

// Menu returns the nutrition table ordered by category and name.
func (s *Store) Menu(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	err := s.db.SelectContext(ctx, &items, `SELECT name, category, calories, protein, fat, carbs, sodium FROM menu_items ORDER BY category, name`)
	return items, err
}

type submissionRow struct {
	ID             string `db:"id"`
	Kind           string `db:"kind"`
	Payload        string `db:"payload"`
	Status         string `db:"status"`
	Error          string `db:"error"`
	UpstreamStatus int    `db:"upstream_status"`
	CreatedAt      string `db:"created_at"`
}

// SaveSubmission records the outcome of one relayed form post.
func (s *Store) SaveSubmission(ctx context.Context, sub forms.Submission) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO submissions (id, kind, payload, status, error, upstream_status, created_at)
		VALUES (:id, :kind, :payload, :status, :error, :upstream_status, :created_at)`, submissionRow{
		ID:             sub.ID,
		Kind:           string(sub.Kind),
		Payload:        string(sub.Payload),
		Status:         sub.Status,
		Error:          sub.Error,
		UpstreamStatus: sub.UpstreamStatus,
		CreatedAt:      sub.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	return err
}

// ListSubmissions returns the newest submissions, optionally for one kind.
func (s *Store) ListSubmissions(ctx context.Context, kind string, limit int) ([]forms.Submission, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []submissionRow
	var err error
	if kind == "" {
		err = s.db.SelectContext(ctx, &rows, `SELECT id, kind, payload, status, error, upstream_status, created_at FROM submissions ORDER BY created_at DESC LIMIT ?`, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows, `SELECT id, kind, payload, status, error, upstream_status, created_at FROM submissions WHERE kind = ? ORDER BY created_at DESC LIMIT ?`, kind, limit)
	}
	if err != nil {
		return nil, err
	}
	subs := make([]forms.Submission, 0, len(rows))
	for _, r := range rows {
		created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("eatery: submission %s created_at: %w", r.ID, err)
		}
		subs = append(subs, forms.Submission{
			ID:             r.ID,
			Kind:           forms.Kind(r.Kind),
			Payload:        json.RawMessage(r.Payload),
			Status:         r.Status,
			Error:          r.Error,
			UpstreamStatus: r.UpstreamStatus,
			CreatedAt:      created,
		})
	}
	return subs, nil
}
