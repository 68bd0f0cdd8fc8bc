package models

import "time"

// Title (título) statuses. "overdue" is never stored: it is derived from
// due_date at read time via EffectiveStatus, so it can't go stale.
const (
	TitleOpen         = "open"
	TitlePaid         = "paid"
	TitleCancelled    = "cancelled"
	TitleInRemittance = "in_remittance"
	TitleOverdue      = "overdue" // derived only
)

// Title is one billing obligation of a contract (a boleto-backed receivable).
// Amount, fine and interest are snapshotted at creation; later plan edits
// must not reach back into issued titles.
type Title struct {
	Id         uint     `json:"id" gorm:"primaryKey"`
	ContractId uint     `json:"contract_id" gorm:"not null;index"`
	Contract   Contract `json:"-" gorm:"foreignKey:ContractId;references:Id;constraint:OnDelete:CASCADE"`

	DocumentNumber string `json:"document_number" gorm:"size:32;uniqueIndex;not null"`
	OurNumber      string `json:"our_number" gorm:"size:32;uniqueIndex;not null"` // nosso número

	Amount          float64 `json:"amount" gorm:"type:numeric(12,2)"`
	FinePercent     float64 `json:"fine_percent"`
	InterestPercent float64 `json:"interest_percent"`

	IssueDate time.Time  `json:"issue_date" gorm:"type:date"`
	DueDate   time.Time  `json:"due_date" gorm:"type:date;index"`
	PaidDate  *time.Time `json:"paid_date" gorm:"type:date"`
	PaidValue *float64   `json:"paid_value" gorm:"type:numeric(12,2)"`

	Status string `json:"status" gorm:"size:20;not null;index;default:open"`

	CreatedAt time.Time `json:"created_at"`
}

// EffectiveStatus is the stored status with "overdue" derived on top.
func (t *Title) EffectiveStatus(today time.Time) string {
	if t.Status == TitleOpen && t.DueDate.Before(truncateToDay(today)) {
		return TitleOverdue
	}
	return t.Status
}

// IsOverdue reports whether an open title's due date has passed.
func (t *Title) IsOverdue(today time.Time) bool {
	return t.EffectiveStatus(today) == TitleOverdue
}

func truncateToDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
