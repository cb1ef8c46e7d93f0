package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ViewFilter struct {
	ColumnID string `json:"columnId" yaml:"columnId"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// ViewSettings is the persisted configuration of a saved view. Favorite
// state is per user and lives in view prefs, not here.
type ViewSettings struct {
	Filters   []ViewFilter `json:"filters" yaml:"filters"`
	Columns   []string     `json:"columns" yaml:"columns"`
	SortBy    string       `json:"sortBy,omitempty" yaml:"sortBy,omitempty"`
	SortOrder string       `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
	GroupBy   string       `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
}

type SavedView struct {
	ID        string
	BoardID   string
	OwnerID   string
	Name      string
	Type      string
	Settings  ViewSettings
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ViewRepository interface {
	Create(ctx context.Context, view *SavedView) error
	FindByID(ctx context.Context, id string) (*SavedView, error)
	FindByBoardID(ctx context.Context, boardID string) ([]*SavedView, error)
	Update(ctx context.Context, view *SavedView) error
	// ClearDefault unsets is_default on every view of the board except keepID.
	ClearDefault(ctx context.Context, boardID, keepID string) error
	Delete(ctx context.Context, id string) error
}

type pgViewRepository struct {
	pool *pgxpool.Pool
}

func NewViewRepository(pool *pgxpool.Pool) ViewRepository {
	return &pgViewRepository{pool: pool}
}

const viewColumns = `id, board_id, owner_id, name, type, settings, is_default, created_at, updated_at`

func scanView(row pgx.Row) (*SavedView, error) {
	v := &SavedView{}
	var settings []byte
	err := row.Scan(
		&v.ID, &v.BoardID, &v.OwnerID, &v.Name, &v.Type, &settings,
		&v.IsDefault, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Settings = decodeViewSettings(settings)
	return v, nil
}

func decodeViewSettings(raw []byte) ViewSettings {
	s := ViewSettings{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &s)
	}
	return s.normalized()
}

func (s ViewSettings) normalized() ViewSettings {
	if s.Filters == nil {
		s.Filters = []ViewFilter{}
	}
	if s.Columns == nil {
		s.Columns = []string{}
	}
	return s
}

func (r *pgViewRepository) Create(ctx context.Context, v *SavedView) error {
	settings, err := json.Marshal(v.Settings.normalized())
	if err != nil {
		return fmt.Errorf("failed to encode view settings: %w", err)
	}
	query := `
		INSERT INTO saved_views (board_id, owner_id, name, type, settings, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		v.BoardID, v.OwnerID, v.Name, v.Type, settings, v.IsDefault,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *pgViewRepository) FindByID(ctx context.Context, id string) (*SavedView, error) {
	query := `SELECT ` + viewColumns + ` FROM saved_views WHERE id = $1`
	v, err := scanView(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *pgViewRepository) FindByBoardID(ctx context.Context, boardID string) ([]*SavedView, error) {
	query := `SELECT ` + viewColumns + ` FROM saved_views WHERE board_id = $1 ORDER BY is_default DESC, created_at`
	rows, err := r.pool.Query(ctx, query, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []*SavedView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *pgViewRepository) Update(ctx context.Context, v *SavedView) error {
	settings, err := json.Marshal(v.Settings.normalized())
	if err != nil {
		return fmt.Errorf("failed to encode view settings: %w", err)
	}
	query := `
		UPDATE saved_views
		SET name = $2, type = $3, settings = $4, is_default = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query, v.ID, v.Name, v.Type, settings, v.IsDefault).Scan(&v.UpdatedAt)
}

func (r *pgViewRepository) ClearDefault(ctx context.Context, boardID, keepID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE saved_views SET is_default = FALSE, updated_at = NOW() WHERE board_id = $1 AND id::text <> $2 AND is_default`,
		boardID, keepID,
	)
	return err
}

func (r *pgViewRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM saved_views WHERE id = $1`, id)
	return err
}
