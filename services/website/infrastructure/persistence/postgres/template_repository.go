package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wono/hostpanel/pkg/database"
	"github.com/wono/hostpanel/pkg/events"
	"github.com/wono/hostpanel/services/website/domain"
	domainevents "github.com/wono/hostpanel/services/website/domain/events"
	"github.com/wono/hostpanel/services/website/domain/models"
	"github.com/wono/hostpanel/services/website/domain/repositories"
	domainsvcs "github.com/wono/hostpanel/services/website/domain/services"
)

const (
	uniqueViolation = "23505"
	eventVersion    = 1
)

const templateColumns = `search_key, company_id, is_active, revision, document, created_at, updated_at`

const (
	insertTemplateSQL = `
INSERT INTO website_templates (search_key, company_name, company_id, is_active, revision, document, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	existsTemplateSQL = `SELECT EXISTS (SELECT 1 FROM website_templates WHERE search_key = $1)`

	getTemplateSQL = `
SELECT ` + templateColumns + `
FROM website_templates
WHERE search_key = $1 AND ($2::boolean IS NULL OR is_active = $2)`

	listTemplatesSQL = `
SELECT ` + templateColumns + `
FROM website_templates
WHERE ($1::boolean IS NULL OR is_active = $1)
ORDER BY created_at, search_key`

	lockTemplateSQL = `
SELECT ` + templateColumns + `
FROM website_templates
WHERE search_key = $1
FOR UPDATE`

	updateTemplateSQL = `
UPDATE website_templates
SET document = $3, revision = revision + 1, updated_at = $4
WHERE search_key = $1 AND revision = $2`

	setActiveSQL = `
UPDATE website_templates
SET is_active = $2, revision = revision + 1, updated_at = now()
WHERE search_key = $1 AND is_active <> $2
RETURNING revision`
)

// TemplateRepository implements repositories.TemplateRepository against PostgreSQL.
// The aggregate is stored as one JSONB document; search_key, is_active and revision
// are columns so they can be filtered and guarded without decoding the document.
type TemplateRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewTemplateRepository returns a TemplateRepository backed by the given pool and
// event bus. The bus publishes template events inside the writing transaction.
func NewTemplateRepository(db *database.Database, bus *events.EventBus) *TemplateRepository {
	return &TemplateRepository{db: db, bus: bus}
}

var _ repositories.TemplateRepository = (*TemplateRepository)(nil)

// Exists reports whether a template owns searchKey.
func (r *TemplateRepository) Exists(ctx context.Context, searchKey string) (bool, error) {
	var exists bool
	if err := r.db.DB().QueryRowContext(ctx, existsTemplateSQL, searchKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("check template exists: %w", err)
	}
	return exists, nil
}

// Create persists a new template and publishes TemplateCreatedEvent in the same transaction.
// Returns ErrTemplateAlreadyExists on unique constraint violations.
func (r *TemplateRepository) Create(ctx context.Context, t *models.Template) error {
	if err := domainsvcs.ValidateTemplate(t); err != nil {
		return err
	}
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertTemplateSQL,
			t.SearchKey, t.CompanyName, nullString(t.CompanyID), t.IsActive, t.Revision, doc, t.CreatedAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return domain.ErrTemplateAlreadyExists
			}
			return fmt.Errorf("insert template: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCreated(tx, t); err != nil {
				return fmt.Errorf("publish template created: %w", err)
			}
		}
		return nil
	})
}

// GetBySearchKey returns the template for searchKey if it passes v.
func (r *TemplateRepository) GetBySearchKey(ctx context.Context, searchKey string, v repositories.Visibility) (*models.Template, error) {
	row := r.db.DB().QueryRowContext(ctx, getTemplateSQL, searchKey, visibilityArg(v))
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("query template: %w", err)
	}
	return t, nil
}

// List returns every template that passes v, oldest first.
func (r *TemplateRepository) List(ctx context.Context, v repositories.Visibility) ([]*models.Template, error) {
	rows, err := r.db.DB().QueryContext(ctx, listTemplatesSQL, visibilityArg(v))
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	out := []*models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

// SetActive flips is_active. Unknown search keys and no-op flips report false
// without error.
func (r *TemplateRepository) SetActive(ctx context.Context, searchKey string, active bool) (bool, error) {
	changed := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var revision int64
		err := tx.QueryRowContext(ctx, setActiveSQL, searchKey, active).Scan(&revision)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("set template active: %w", err)
		}
		changed = true
		if r.bus != nil {
			return r.publishUpdated(tx, searchKey, revision, active)
		}
		return nil
	})
	return changed, err
}

// Update locks the row, applies mutate to the current document and commits it with
// the revision incremented. expectedRevision 0 skips the staleness check.
// Any error from mutate or validation aborts the transaction and is returned unchanged.
func (r *TemplateRepository) Update(ctx context.Context, searchKey string, expectedRevision int64, mutate repositories.MutateFunc) (*models.Template, error) {
	var updated *models.Template
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		t, err := scanTemplate(tx.QueryRowContext(ctx, lockTemplateSQL, searchKey))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrTemplateNotFound
			}
			return fmt.Errorf("lock template: %w", err)
		}
		if expectedRevision > 0 && t.Revision != expectedRevision {
			return domain.ErrStaleRevision
		}

		if err := mutate(ctx, t); err != nil {
			return err
		}
		if err := domainsvcs.ValidateTemplate(t); err != nil {
			return err
		}

		now := time.Now().UTC()
		t.UpdatedAt = now
		doc, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal template: %w", err)
		}

		res, err := tx.ExecContext(ctx, updateTemplateSQL, searchKey, t.Revision, doc, now)
		if err != nil {
			return fmt.Errorf("update template: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update template rows: %w", err)
		} else if n == 0 {
			return domain.ErrStaleRevision
		}
		t.Revision++

		if r.bus != nil {
			if err := r.publishUpdated(tx, t.SearchKey, t.Revision, t.IsActive); err != nil {
				return err
			}
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *TemplateRepository) publishCreated(tx *sql.Tx, t *models.Template) error {
	return r.publish(tx, domainevents.TopicTemplateCreated, domainevents.TemplateCreatedEvent{
		EventID:     uuid.New(),
		Version:     eventVersion,
		SearchKey:   t.SearchKey,
		CompanyName: t.CompanyName,
		Revision:    t.Revision,
		OccurredAt:  t.CreatedAt,
	})
}

func (r *TemplateRepository) publishUpdated(tx *sql.Tx, searchKey string, revision int64, isActive bool) error {
	return r.publish(tx, domainevents.TopicTemplateUpdated, domainevents.TemplateUpdatedEvent{
		EventID:    uuid.New(),
		Version:    eventVersion,
		SearchKey:  searchKey,
		Revision:   revision,
		IsActive:   isActive,
		OccurredAt: time.Now().UTC(),
	})
}

func (r *TemplateRepository) publish(tx *sql.Tx, topic string, event any) error {
	if err := r.bus.PublishEventTx(tx, topic, event, eventVersion); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTemplate decodes the document and overlays the authoritative columns.
func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		searchKey string
		companyID sql.NullString
		isActive  bool
		revision  int64
		doc       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&searchKey, &companyID, &isActive, &revision, &doc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	t := models.NewTemplate(searchKey, "")
	if err := json.Unmarshal(doc, t); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", searchKey, err)
	}
	t.SearchKey = searchKey
	t.CompanyID = companyID.String
	t.IsActive = isActive
	t.Revision = revision
	t.CreatedAt = createdAt
	t.UpdatedAt = updatedAt
	return t, nil
}

func visibilityArg(v repositories.Visibility) sql.NullBool {
	switch v {
	case repositories.ActiveOnly:
		return sql.NullBool{Bool: true, Valid: true}
	case repositories.InactiveOnly:
		return sql.NullBool{Bool: false, Valid: true}
	default:
		return sql.NullBool{}
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
