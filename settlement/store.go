package settlement

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/zhiming817/learn2earn/models"
)

// GormPayoutStore persists payouts in MySQL.
type GormPayoutStore struct {
	db *gorm.DB
}

func NewGormPayoutStore(db *gorm.DB) *GormPayoutStore {
	return &GormPayoutStore{db: db}
}

func (s *GormPayoutStore) CreatePayout(ctx context.Context, p *models.Payout) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormPayoutStore) ListBySubmission(ctx context.Context, submissionID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("id DESC").
		Find(&payouts).Error
	return payouts, err
}

// MemoryPayoutStore backs tests and database-less development.
type MemoryPayoutStore struct {
	mu     sync.Mutex
	nextID uint
	rows   []models.Payout
}

func NewMemoryPayoutStore() *MemoryPayoutStore {
	return &MemoryPayoutStore{nextID: 1}
}

func (s *MemoryPayoutStore) CreatePayout(_ context.Context, p *models.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, *p)
	return nil
}

func (s *MemoryPayoutStore) ListBySubmission(_ context.Context, submissionID uint) ([]models.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Payout
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].SubmissionID == submissionID {
			out = append(out, s.rows[i])
		}
	}
	return out, nil
}
