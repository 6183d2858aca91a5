package item

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/content/models"
	"newsdesk/internal/platform/database"
	"newsdesk/pkg/platform/sentinel"
	txcontext "newsdesk/pkg/platform/tx"
)

// Migrations holds the schema for both collection tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const columns = "id, guid, provider, type, headline, slugline, body_html, firstcreated, versioncreated"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore reads one collection table through database/sql. The same code
// serves PostgreSQL (lib/pq) and SQLite (modernc) through the dialect.
type SQLStore struct {
	db    *database.DB
	table string
}

// NewSQL constructs a store bound to the table of collection c.
func NewSQL(db *database.DB, c models.Collection) (*SQLStore, error) {
	if !c.Valid() {
		return nil, &models.CollectionNotFoundError{Name: c.String()}
	}
	return &SQLStore{db: db, table: c.String()}, nil
}

// Migrate applies the collection schema.
func Migrate(ctx context.Context, db *database.DB) error {
	return database.ApplyMigrations(ctx, db, Migrations, "migrations")
}

func (s *SQLStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *SQLStore) ph(n int) string {
	return s.db.Dialect.Placeholder(n)
}

// FindByID returns the record with the given id or sentinel.ErrNotFound.
func (s *SQLStore) FindByID(ctx context.Context, id string) (*models.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s", columns, s.table, s.ph(1))
	it, err := scanItem(s.q(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s item: %w", s.table, err)
	}
	return it, nil
}

// Query returns the page of records matching c.
func (s *SQLStore) Query(ctx context.Context, c models.Criteria) (*models.ResultSet, error) {
	keys, err := validate(c)
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	for _, k := range keys {
		args = append(args, c.Filter[k])
		conds = append(conds, fmt.Sprintf("%s = %s", k, s.ph(len(args))))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.table, where)
	if err := s.q(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", s.table, err)
	}

	dir := strings.ToUpper(string(c.Sort.Direction))
	listArgs := append(args, c.PageSize, c.Offset())
	listQuery := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s, id %s LIMIT %s OFFSET %s",
		columns, s.table, where, c.Sort.Field, dir, dir, s.ph(len(args)+1), s.ph(len(args)+2))

	rows, err := s.q(ctx).QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0, max(c.PageSize, 0))
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	return &models.ResultSet{Items: items, Total: total, Page: c.WithPage(c.Page).Page, PageSize: c.PageSize}, nil
}

// Save inserts or replaces a record. It joins a transaction carried in ctx.
func (s *SQLStore) Save(ctx context.Context, it *models.Item) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s)
ON CONFLICT (id) DO UPDATE SET
	guid = EXCLUDED.guid,
	provider = EXCLUDED.provider,
	type = EXCLUDED.type,
	headline = EXCLUDED.headline,
	slugline = EXCLUDED.slugline,
	body_html = EXCLUDED.body_html,
	firstcreated = EXCLUDED.firstcreated,
	versioncreated = EXCLUDED.versioncreated`,
		s.table, columns,
		s.ph(1), s.ph(2), s.ph(3), s.ph(4), s.ph(5), s.ph(6), s.ph(7), s.ph(8), s.ph(9))

	_, err := s.q(ctx).ExecContext(ctx, query,
		it.ID, it.GUID, it.Provider, it.Type, it.Headline, it.Slugline, it.BodyHTML,
		it.FirstCreated.UnixMilli(), it.VersionCreated.UnixMilli())
	if err != nil {
		return fmt.Errorf("save %s item: %w", s.table, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.Item, error) {
	var (
		it                    models.Item
		created, versionStamp int64
	)
	if err := row.Scan(&it.ID, &it.GUID, &it.Provider, &it.Type, &it.Headline, &it.Slugline,
		&it.BodyHTML, &created, &versionStamp); err != nil {
		return nil, err
	}
	it.FirstCreated = time.UnixMilli(created).UTC()
	it.VersionCreated = time.UnixMilli(versionStamp).UTC()
	return &it, nil
}
