package workflow

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/zhiming817/learn2earn/models"
)

// MemoryStore is a mutex-guarded in-memory Store with the same
// compare-and-set semantics as GormStore. Used by tests and by local
// development without a database.
type MemoryStore struct {
	mu          sync.Mutex
	nextSubID   uint
	nextClaimID uint
	subs        map[uint]*models.Submission
	tasks       map[uint]*models.Task
	claims      map[[2]uint]*models.TaskClaim // [userID, taskID]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextSubID:   1,
		nextClaimID: 1,
		subs:        map[uint]*models.Submission{},
		tasks:       map[uint]*models.Task{},
		claims:      map[[2]uint]*models.TaskClaim{},
	}
}

// PutTask seeds a task. Task CRUD itself lives outside the workflow core.
func (s *MemoryStore) PutTask(task *models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *task
	s.tasks[task.ID] = &cp
}

func (s *MemoryStore) CreateSubmission(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = s.nextSubID
	s.nextSubID++
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	cp := *sub
	s.subs[sub.ID] = &cp
	return nil
}

func (s *MemoryStore) GetSubmission(_ context.Context, id uint) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *MemoryStore) ListByTask(_ context.Context, taskID uint, page, pageSize int, status string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	s.mu.Lock()
	var all []models.Submission
	for _, sub := range s.subs {
		if sub.TaskID != taskID {
			continue
		}
		if status != "" && sub.Status != status {
			continue
		}
		all = append(all, *sub)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	return &Page{
		Data:       all[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id uint, expect, to string, note *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return ErrNotFound
	}
	if sub.Status != expect {
		return ErrConflict
	}
	sub.Status = to
	sub.Note = note
	sub.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) GetTask(_ context.Context, id uint) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *task
	return &cp, nil
}

func (s *MemoryStore) GetClaim(_ context.Context, userID, taskID uint) (*models.TaskClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.claims[[2]uint{userID, taskID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *claim
	return &cp, nil
}

func (s *MemoryStore) CreateClaim(_ context.Context, claim *models.TaskClaim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{claim.UserID, claim.TaskID}
	if _, exists := s.claims[key]; exists {
		return ErrConflict
	}
	claim.ID = s.nextClaimID
	s.nextClaimID++
	claim.ClaimedAt = time.Now()
	cp := *claim
	s.claims[key] = &cp
	return nil
}

func (s *MemoryStore) UpdateClaimStatus(_ context.Context, userID, taskID uint, expect, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.claims[[2]uint{userID, taskID}]
	if !ok {
		return ErrNotFound
	}
	if claim.Status != expect {
		return ErrConflict
	}
	claim.Status = to
	return nil
}
