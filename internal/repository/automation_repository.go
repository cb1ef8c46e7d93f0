package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AutomationRepository interface {
	Create(ctx context.Context, a *automation.Automation) error
	FindByID(ctx context.Context, id string) (*automation.Automation, error)
	FindByBoardID(ctx context.Context, boardID string) ([]*automation.Automation, error)
	Update(ctx context.Context, a *automation.Automation) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type pgAutomationRepository struct {
	pool *pgxpool.Pool
}

func NewAutomationRepository(pool *pgxpool.Pool) AutomationRepository {
	return &pgAutomationRepository{pool: pool}
}

const automationColumns = `id, board_id, name, COALESCE(description, ''), trigger_type, trigger_config, actions, conditions, is_active, COALESCE(created_by, ''), created_at, updated_at`

func scanAutomation(row pgx.Row) (*automation.Automation, error) {
	a := &automation.Automation{}
	var triggerConfig, actions, conditions []byte
	err := row.Scan(
		&a.ID, &a.BoardID, &a.Name, &a.Description, &a.Trigger.Type,
		&triggerConfig, &actions, &conditions, &a.IsActive, &a.CreatedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Trigger.Config = automation.Config{}
	a.Actions = []automation.Action{}
	if err := json.Unmarshal(triggerConfig, &a.Trigger.Config); err != nil {
		log.Printf("⚠️ [Automations] Corrupt trigger config on %s: %v", a.ID, err)
		a.Trigger.Config = automation.Config{}
	}
	if err := json.Unmarshal(actions, &a.Actions); err != nil {
		log.Printf("⚠️ [Automations] Corrupt actions on %s: %v", a.ID, err)
		a.Actions = []automation.Action{}
	}
	if len(conditions) > 0 {
		var g automation.ConditionGroup
		if err := json.Unmarshal(conditions, &g); err == nil && len(g.Conditions) > 0 {
			a.Conditions = &g
		}
	}
	return a, nil
}

func encodeAutomation(a *automation.Automation) (triggerConfig, actions, conditions []byte, err error) {
	cfg := a.Trigger.Config
	if cfg == nil {
		cfg = automation.Config{}
	}
	if triggerConfig, err = json.Marshal(cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode trigger config: %w", err)
	}
	acts := a.Actions
	if acts == nil {
		acts = []automation.Action{}
	}
	if actions, err = json.Marshal(acts); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode actions: %w", err)
	}
	if a.Conditions != nil && len(a.Conditions.Conditions) > 0 {
		if conditions, err = json.Marshal(a.Conditions); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode conditions: %w", err)
		}
	}
	return triggerConfig, actions, conditions, nil
}

func (r *pgAutomationRepository) Create(ctx context.Context, a *automation.Automation) error {
	triggerConfig, actions, conditions, err := encodeAutomation(a)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO automations (board_id, name, description, trigger_type, trigger_config, actions, conditions, is_active, created_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''))
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		a.BoardID, a.Name, a.Description, a.Trigger.Type, triggerConfig, actions, conditions, a.IsActive, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *pgAutomationRepository) FindByID(ctx context.Context, id string) (*automation.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations WHERE id = $1`
	a, err := scanAutomation(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *pgAutomationRepository) FindByBoardID(ctx context.Context, boardID string) ([]*automation.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations WHERE board_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*automation.Automation{}
	for rows.Next() {
		a, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *pgAutomationRepository) Update(ctx context.Context, a *automation.Automation) error {
	triggerConfig, actions, conditions, err := encodeAutomation(a)
	if err != nil {
		return err
	}
	query := `
		UPDATE automations
		SET name = $2, description = NULLIF($3, ''), trigger_type = $4, trigger_config = $5,
		    actions = $6, conditions = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		a.ID, a.Name, a.Description, a.Trigger.Type, triggerConfig, actions, conditions, a.IsActive,
	).Scan(&a.UpdatedAt)
}

func (r *pgAutomationRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE automations SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	return err
}

func (r *pgAutomationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM automations WHERE id = $1`, id)
	return err
}
