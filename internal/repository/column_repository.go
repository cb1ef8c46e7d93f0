package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ColumnRepository interface {
	Create(ctx context.Context, col *columns.Column) error
	FindByID(ctx context.Context, id string) (*columns.Column, error)
	// FindByBoardID returns the board's columns ordered by position.
	FindByBoardID(ctx context.Context, boardID string) ([]*columns.Column, error)
	FindByType(ctx context.Context, columnType string) ([]*columns.Column, error)
	Update(ctx context.Context, col *columns.Column) error
	Reorder(ctx context.Context, boardID string, columnIDs []string) error
	NextPosition(ctx context.Context, boardID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type pgColumnRepository struct {
	pool *pgxpool.Pool
}

func NewColumnRepository(pool *pgxpool.Pool) ColumnRepository {
	return &pgColumnRepository{pool: pool}
}

const columnColumns = `id, board_id, name, type, COALESCE(description, ''), position, required, is_hidden, width, settings, default_value, created_at, updated_at`

func scanColumn(row pgx.Row) (*columns.Column, error) {
	c := &columns.Column{}
	var settings, defaultValue []byte
	err := row.Scan(
		&c.ID, &c.BoardID, &c.Name, &c.Type, &c.Description, &c.Position,
		&c.Required, &c.IsHidden, &c.Width, &settings, &defaultValue,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Settings, c.Conditional = columns.DecodeSettings(c.Type, settings)
	if len(defaultValue) > 0 {
		_ = json.Unmarshal(defaultValue, &c.DefaultValue)
	}
	return c, nil
}

func encodeColumn(c *columns.Column) (settings []byte, defaultValue []byte, err error) {
	settings, err = columns.EncodeSettings(c.Settings, c.Conditional)
	if err != nil {
		return nil, nil, err
	}
	if c.DefaultValue != nil {
		defaultValue, err = json.Marshal(c.DefaultValue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode default value: %w", err)
		}
	}
	return settings, defaultValue, nil
}

func (r *pgColumnRepository) Create(ctx context.Context, c *columns.Column) error {
	settings, defaultValue, err := encodeColumn(c)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO board_columns (board_id, name, type, description, position, required, is_hidden, width, settings, default_value)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		c.BoardID, c.Name, string(c.Type), c.Description, c.Position,
		c.Required, c.IsHidden, c.Width, settings, defaultValue,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *pgColumnRepository) FindByID(ctx context.Context, id string) (*columns.Column, error) {
	query := `SELECT ` + columnColumns + ` FROM board_columns WHERE id = $1`
	c, err := scanColumn(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgColumnRepository) FindByBoardID(ctx context.Context, boardID string) ([]*columns.Column, error) {
	query := `SELECT ` + columnColumns + ` FROM board_columns WHERE board_id = $1 ORDER BY position, created_at`
	return r.list(ctx, query, boardID)
}

func (r *pgColumnRepository) FindByType(ctx context.Context, columnType string) ([]*columns.Column, error) {
	query := `SELECT ` + columnColumns + ` FROM board_columns WHERE type = $1 ORDER BY board_id, position`
	return r.list(ctx, query, columnType)
}

func (r *pgColumnRepository) list(ctx context.Context, query string, arg any) ([]*columns.Column, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := []*columns.Column{}
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (r *pgColumnRepository) Update(ctx context.Context, c *columns.Column) error {
	settings, defaultValue, err := encodeColumn(c)
	if err != nil {
		return err
	}
	query := `
		UPDATE board_columns
		SET name = $2, type = $3, description = NULLIF($4, ''), position = $5, required = $6,
		    is_hidden = $7, width = $8, settings = $9, default_value = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		c.ID, c.Name, string(c.Type), c.Description, c.Position, c.Required,
		c.IsHidden, c.Width, settings, defaultValue,
	).Scan(&c.UpdatedAt)
}

func (r *pgColumnRepository) Reorder(ctx context.Context, boardID string, columnIDs []string) error {
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i, id := range columnIDs {
			if _, err := tx.Exec(ctx,
				`UPDATE board_columns SET position = $3, updated_at = NOW() WHERE id = $1 AND board_id = $2`,
				id, boardID, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pgColumnRepository) NextPosition(ctx context.Context, boardID string) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM board_columns WHERE board_id = $1`, boardID,
	).Scan(&next)
	return next, err
}

func (r *pgColumnRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM board_columns WHERE id = $1`, id)
	return err
}
