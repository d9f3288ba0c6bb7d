// Package store is the append-only log of observations over the registros
// table. It is the only component allowed to touch the table.
package store

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"postolog/models"
)

// Store wraps the database handle behind the append-only contract: insert
// and fetch-all, nothing else. The embedded file assumes a single writer, so
// inserts are serialized with a mutex rather than relying on callers.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Init ensures the registros table exists. Idempotent; called on every
// process start.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(&models.Observation{}); err != nil {
		return fmt.Errorf("ensure registros table: %w", err)
	}
	return nil
}

// Insert appends one observation and assigns its id. The statement is
// atomic: a schema mismatch or write failure leaves prior rows untouched.
func (s *Store) Insert(o *models.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.DataHora.IsZero() {
		o.DataHora = models.NowLocal()
	}
	if err := s.db.Create(o).Error; err != nil {
		return fmt.Errorf("insert registro: %w", err)
	}
	return nil
}

// FetchAll returns every observation, newest first (id is the only ordering
// key). An empty table yields an empty slice, not an error.
func (s *Store) FetchAll() ([]models.Observation, error) {
	var rows []models.Observation
	if err := s.db.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch registros: %w", err)
	}
	return rows, nil
}
