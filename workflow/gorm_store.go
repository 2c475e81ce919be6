package workflow

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/zhiming817/learn2earn/models"
)

// GormStore persists submissions and claims in MySQL via GORM. Status
// updates use a conditional UPDATE so the compare-and-set holds without
// row locks.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *GormStore) GetSubmission(ctx context.Context, id uint) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) ListByTask(ctx context.Context, taskID uint, page, pageSize int, status string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	db := s.db.WithContext(ctx)
	countQuery := db.Model(&models.Submission{}).Where("task_id = ?", taskID)
	query := db.Where("task_id = ?", taskID)
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var subs []models.Submission
	if err := query.
		Order("created_at DESC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&subs).Error; err != nil {
		return nil, err
	}

	return &Page{
		Data:       subs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, id uint, expect, to string, note *string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(map[string]interface{}{"status": to, "note": note})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a lost race from a missing row.
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

func (s *GormStore) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *GormStore) GetClaim(ctx context.Context, userID, taskID uint) (*models.TaskClaim, error) {
	var claim models.TaskClaim
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

func (s *GormStore) CreateClaim(ctx context.Context, claim *models.TaskClaim) error {
	// Rely on the (user_id, task_id) unique index to make double claims
	// race-safe rather than checking first.
	if err := s.db.WithContext(ctx).Create(claim).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormStore) UpdateClaimStatus(ctx context.Context, userID, taskID uint, expect, to string) error {
	res := s.db.WithContext(ctx).
		Model(&models.TaskClaim{}).
		Where("user_id = ? AND task_id = ? AND status = ?", userID, taskID, expect).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.TaskClaim{}).
			Where("user_id = ? AND task_id = ?", userID, taskID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}
