package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cobranca-backend/models"

	"gorm.io/gorm"
)

// ReturnItemInput is one settlement line of an inbound bank file, already
// decoded from its wire format (see package cnab).
type ReturnItemInput struct {
	OurNumber  string    `json:"our_number" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=paid rejected"`
	Value      float64   `json:"value"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
	RawLine    string    `json:"-"`
}

// BuildRemittance batches the given open titles into a new remittance and
// flips them to in_remittance. All-or-nothing: a single non-open title (or
// any storage failure) aborts the whole batch, because a half-sent remessa
// corrupts bank reconciliation. Runs in its own transaction; rows are locked
// so a concurrent build cannot double-include a title.
func BuildRemittance(db *gorm.DB, titleIDs []uint) (*models.Remittance, error) {
	if len(titleIDs) == 0 {
		return nil, validationErr("remittance needs at least one title")
	}

	var rem *models.Remittance
	err := db.Transaction(func(tx *gorm.DB) error {
		var titles []models.Title
		if err := lockForUpdate(tx).
			Where("id IN ?", titleIDs).Find(&titles).Error; err != nil {
			return err
		}
		if len(titles) != len(titleIDs) {
			return notFound("title batch", titleIDs)
		}
		for i := range titles {
			if titles[i].Status != models.TitleOpen {
				return invalidTransition(titles[i].Id, titles[i].Status, models.TitleInRemittance)
			}
		}

		seq, err := nextRemittanceSequence(tx)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		r := models.Remittance{
			FileName:    fmt.Sprintf("CB%s%05d.REM", now.Format("060102"), seq),
			Sequence:    seq,
			TotalTitles: len(titles),
			GeneratedAt: now,
		}
		for i := range titles {
			snap, err := json.Marshal(titles[i])
			if err != nil {
				return err
			}
			id := titles[i].Id
			r.TotalValue += titles[i].Amount
			r.Items = append(r.Items, models.RemittanceItem{
				TitleId:  &id,
				Value:    titles[i].Amount,
				Snapshot: snap,
			})
		}
		if err := tx.Create(&r).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Title{}).Where("id IN ?", titleIDs).
			Update("status", models.TitleInRemittance).Error; err != nil {
			return err
		}
		rem = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rem, nil
}

func nextRemittanceSequence(tx *gorm.DB) (int, error) {
	var last models.Remittance
	err := lockForUpdate(tx).
		Order("sequence DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Sequence + 1, nil
}

// ApplyReturnFile processes an inbound retorno in one transaction.
// "paid" lines settle the linked title with paid_date = occurred_at;
// "rejected" lines send it back to open so it can be re-sent; lines whose
// our_number matches nothing are kept with a nil title link and flagged for
// manual reconciliation instead of being dropped. Any invalid line aborts
// the whole file.
func ApplyReturnFile(db *gorm.DB, fileName string, items []ReturnItemInput) (*models.ReturnFile, error) {
	if len(items) == 0 {
		return nil, validationErr("return file has no items")
	}

	var rf *models.ReturnFile
	err := db.Transaction(func(tx *gorm.DB) error {
		file := models.ReturnFile{
			FileName:    fileName,
			ProcessedAt: time.Now().UTC(),
		}

		for _, in := range items {
			if in.Status != models.ReturnPaid && in.Status != models.ReturnRejected {
				return validationErr("unknown return status " + in.Status)
			}

			item := models.ReturnItem{
				OurNumber:  in.OurNumber,
				Status:     in.Status,
				Value:      in.Value,
				OccurredAt: in.OccurredAt,
				RawLine:    in.RawLine,
			}

			var title models.Title
			err := lockForUpdate(tx).
				Where("our_number = ?", in.OurNumber).First(&title).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item.Unmatched = true
			case err != nil:
				return err
			default:
				id := title.Id
				item.TitleId = &id
				switch in.Status {
				case models.ReturnPaid:
					if title.Status != models.TitleInRemittance && title.Status != models.TitleOpen {
						return invalidTransition(title.Id, title.Status, models.TitlePaid)
					}
					value := in.Value
					if value == 0 {
						value = title.Amount
					}
					occurredAt := in.OccurredAt
					title.Status = models.TitlePaid
					title.PaidDate = &occurredAt
					title.PaidValue = &value
					if err := tx.Model(&title).Select("status", "paid_date", "paid_value").Updates(&title).Error; err != nil {
						return err
					}
				case models.ReturnRejected:
					if title.Status != models.TitleInRemittance {
						return invalidTransition(title.Id, title.Status, models.TitleOpen)
					}
					title.Status = models.TitleOpen
					if err := tx.Model(&title).Select("status").Updates(&title).Error; err != nil {
						return err
					}
				}
			}

			file.Items = append(file.Items, item)
		}

		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		rf = &file
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rf, nil
}
