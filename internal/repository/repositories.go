package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	BoardRepo      BoardRepository
	ColumnRepo     ColumnRepository
	ItemRepo       ItemRepository
	AutomationRepo AutomationRepository
	ViewRepo       ViewRepository
	CounterRepo    CounterRepository
}

// NewPgRepositories creates repositories backed by the Postgres pool.
func NewPgRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		BoardRepo:      NewBoardRepository(pool),
		ColumnRepo:     NewColumnRepository(pool),
		ItemRepo:       NewItemRepository(pool),
		AutomationRepo: NewAutomationRepository(pool),
		ViewRepo:       NewViewRepository(pool),
		CounterRepo:    NewCounterRepository(pool),
	}
}
