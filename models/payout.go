package models

import "time"

// Payout records one settlement attempt against an approved submission.
// A submission may accumulate several rows (operators can re-attempt with
// corrected inputs); recording a payout never changes the submission status.
type Payout struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Recipient    string    `gorm:"type:varchar(128);not null" json:"recipient"`
	Amount       float64   `gorm:"type:decimal(20,9);not null" json:"amount"`
	Token        string    `gorm:"type:varchar(32);not null" json:"token"`
	Memo         string    `gorm:"type:varchar(255)" json:"memo,omitempty"`
	OrderID      string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status       string    `gorm:"type:enum('Success','Failed');not null" json:"status"`
	TxDigest     *string   `gorm:"type:varchar(128)" json:"tx_digest,omitempty"`
	FailReason   *string   `gorm:"type:text" json:"fail_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Payout) TableName() string {
	return "payouts"
}

const (
	PayoutSuccess = "Success"
	PayoutFailed  = "Failed"
)
