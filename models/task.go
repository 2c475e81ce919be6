package models

import "time"

type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	RewardCNY   int       `gorm:"column:reward_cny;not null" json:"reward_cny"`
	RewardToken string    `gorm:"column:reward_token;type:varchar(32)" json:"reward_token"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskClaim tracks a user's intent to work on a task. One row per
// user-task pair; absence means unclaimed. Rows are never deleted.
type TaskClaim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_task" json:"user_id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_user_task" json:"task_id"`
	Status    string    `gorm:"type:enum('claimed','completed');not null;default:'claimed'" json:"status"`
	ClaimedAt time.Time `gorm:"autoCreateTime" json:"claimed_at"`
	UpdatedAt time.Time `json:"-"`
}

func (TaskClaim) TableName() string {
	return "task_claims"
}

const (
	ClaimStatusClaimed   = "claimed"
	ClaimStatusCompleted = "completed"
)
