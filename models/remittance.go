package models

import (
	"time"

	"gorm.io/datatypes"
)

// Remittance (remessa) is a batch of titles handed to a bank for collection.
type Remittance struct {
	Id          uint             `json:"id" gorm:"primaryKey"`
	FileName    string           `json:"file_name" gorm:"size:64;unique;not null"`
	Sequence    int              `json:"sequence" gorm:"not null"`
	TotalTitles int              `json:"total_titles"`
	TotalValue  float64          `json:"total_value" gorm:"type:numeric(12,2)"`
	GeneratedAt time.Time        `json:"generated_at"`
	Items       []RemittanceItem `json:"items" gorm:"foreignKey:RemittanceId;constraint:OnDelete:CASCADE"`
}

// RemittanceItem attaches one title to a remittance, freezing its value and
// a snapshot of the billing fields as they stood at send time. Owned by the
// remittance; the title link is weak on purpose (bank history outlives titles).
type RemittanceItem struct {
	Id           uint           `json:"id" gorm:"primaryKey"`
	RemittanceId uint           `json:"-" gorm:"index"`
	TitleId      *uint          `json:"title_id" gorm:"index"`
	Value        float64        `json:"value" gorm:"type:numeric(12,2)"`
	Snapshot     datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
}

// Return file item statuses as reported by the bank.
const (
	ReturnPaid     = "paid"
	ReturnRejected = "rejected"
)

// ReturnFile (retorno) is an inbound bank file reporting settlement events.
type ReturnFile struct {
	Id          uint         `json:"id" gorm:"primaryKey"`
	FileName    string       `json:"file_name" gorm:"size:64;not null"`
	ProcessedAt time.Time    `json:"processed_at"`
	Items       []ReturnItem `json:"items" gorm:"foreignKey:ReturnFileId;constraint:OnDelete:CASCADE"`
}

// ReturnItem is one settlement line. TitleId is nullable: a line may point at
// a purged or unknown title; such lines are kept with Unmatched=true for
// manual reconciliation instead of being dropped.
type ReturnItem struct {
	Id           uint      `json:"id" gorm:"primaryKey"`
	ReturnFileId uint      `json:"-" gorm:"index"`
	TitleId      *uint     `json:"title_id" gorm:"index"`
	OurNumber    string    `json:"our_number" gorm:"size:32;index"`
	Status       string    `json:"status" gorm:"size:20;not null"`
	Value        float64   `json:"value" gorm:"type:numeric(12,2)"`
	OccurredAt   time.Time `json:"occurred_at" gorm:"type:date"`
	Unmatched    bool      `json:"unmatched"`
	RawLine      string    `json:"-" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}
