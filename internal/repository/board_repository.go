package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Board struct {
	ID              string
	Name            string
	Description     *string
	OwnerID         string
	FormPublic      bool
	FormTitle       *string
	FormDescription *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type BoardRepository interface {
	Create(ctx context.Context, board *Board) error
	FindByID(ctx context.Context, id string) (*Board, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Board, error)
	Update(ctx context.Context, board *Board) error
	Delete(ctx context.Context, id string) error
}

type pgBoardRepository struct {
	pool *pgxpool.Pool
}

func NewBoardRepository(pool *pgxpool.Pool) BoardRepository {
	return &pgBoardRepository{pool: pool}
}

const boardColumns = `id, name, description, owner_id, form_public, form_title, form_description, created_at, updated_at`

func scanBoard(row pgx.Row) (*Board, error) {
	b := &Board{}
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.OwnerID, &b.FormPublic,
		&b.FormTitle, &b.FormDescription, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *pgBoardRepository) Create(ctx context.Context, board *Board) error {
	query := `
		INSERT INTO boards (name, description, owner_id, form_public, form_title, form_description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		board.Name, board.Description, board.OwnerID, board.FormPublic, board.FormTitle, board.FormDescription,
	).Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt)
}

func (r *pgBoardRepository) FindByID(ctx context.Context, id string) (*Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1`
	b, err := scanBoard(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *pgBoardRepository) FindByOwner(ctx context.Context, ownerID string) ([]*Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []*Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (r *pgBoardRepository) Update(ctx context.Context, board *Board) error {
	query := `
		UPDATE boards
		SET name = $2, description = $3, form_public = $4, form_title = $5, form_description = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		board.ID, board.Name, board.Description, board.FormPublic, board.FormTitle, board.FormDescription,
	).Scan(&board.UpdatedAt)
}

func (r *pgBoardRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}
