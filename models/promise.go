package models

import "time"

// Payment promise statuses.
const (
	PromiseOpen   = "open"
	PromiseKept   = "kept"
	PromiseBroken = "broken"
)

// PaymentPromise records a client promising to settle a debt by a given date.
// TitleId is optional: a promise may cover the client's debt in general.
type PaymentPromise struct {
	Id           uint       `json:"id" gorm:"primaryKey"`
	ClientId     uint       `json:"client_id" gorm:"not null;index"`
	Client       Client     `json:"-" gorm:"foreignKey:ClientId;references:Id"`
	TitleId      *uint      `json:"title_id" gorm:"index"`
	PromisedDate time.Time  `json:"promised_date" gorm:"type:date;not null"`
	Status       string     `json:"status" gorm:"size:20;not null;default:open"`
	Note         string     `json:"note"`
	ResolvedAt   *time.Time `json:"resolved_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
