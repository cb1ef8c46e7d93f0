package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Item struct {
	ID        string
	BoardID   string
	Name      string
	Status    *string
	Group     *string
	Position  int
	State     string
	Cells     map[string]any
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id string) (*Item, error)
	FindByBoardID(ctx context.Context, boardID string, includeArchived bool) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	NextPosition(ctx context.Context, boardID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type pgItemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &pgItemRepository{pool: pool}
}

const itemColumns = `id, board_id, name, status, group_name, position, state, cells, created_by, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	it := &Item{}
	var cells []byte
	err := row.Scan(
		&it.ID, &it.BoardID, &it.Name, &it.Status, &it.Group, &it.Position,
		&it.State, &cells, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Cells = decodeCells(it.ID, cells)
	return it, nil
}

// decodeCells never fails: a corrupt cell bag reads as empty.
func decodeCells(itemID string, raw []byte) map[string]any {
	cells := map[string]any{}
	if len(raw) == 0 {
		return cells
	}
	if err := json.Unmarshal(raw, &cells); err != nil {
		log.Printf("⚠️ [Items] Corrupt cells on item %s: %v", itemID, err)
		return map[string]any{}
	}
	if cells == nil {
		cells = map[string]any{}
	}
	return cells
}

func encodeCells(cells map[string]any) ([]byte, error) {
	if cells == nil {
		cells = map[string]any{}
	}
	b, err := json.Marshal(cells)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cells: %w", err)
	}
	return b, nil
}

func (r *pgItemRepository) Create(ctx context.Context, item *Item) error {
	cells, err := encodeCells(item.Cells)
	if err != nil {
		return err
	}
	if item.State == "" {
		item.State = "active"
	}
	query := `
		INSERT INTO items (board_id, name, status, group_name, position, state, cells, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		item.BoardID, item.Name, item.Status, item.Group, item.Position, item.State, cells, item.CreatedBy,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *pgItemRepository) FindByID(ctx context.Context, id string) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *pgItemRepository) FindByBoardID(ctx context.Context, boardID string, includeArchived bool) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE board_id = $1`
	if !includeArchived {
		query += ` AND state = 'active'`
	}
	query += ` ORDER BY position, created_at`

	rows, err := r.pool.Query(ctx, query, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgItemRepository) Update(ctx context.Context, item *Item) error {
	cells, err := encodeCells(item.Cells)
	if err != nil {
		return err
	}
	query := `
		UPDATE items
		SET name = $2, status = $3, group_name = $4, position = $5, state = $6, cells = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		item.ID, item.Name, item.Status, item.Group, item.Position, item.State, cells,
	).Scan(&item.UpdatedAt)
}

func (r *pgItemRepository) NextPosition(ctx context.Context, boardID string) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM items WHERE board_id = $1`, boardID,
	).Scan(&next)
	return next, err
}

func (r *pgItemRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	return err
}
