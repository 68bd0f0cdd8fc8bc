package services

import (
	"errors"
	"time"

	"cobranca-backend/models"

	"gorm.io/gorm"
)

// DefaultDueDay is used when no config exists at any scope.
const DefaultDueDay = 10

// DueDateConfigInput is the creation DTO for a due-day rule.
type DueDateConfigInput struct {
	ClientId *uint `json:"client_id"`
	PlanId   *uint `json:"plan_id"`
	DueDay   int   `json:"due_day" validate:"required,min=1,max=31"`
}

// ResolveDueDay walks the priority cascade: client override, then plan
// override, then the global rule, then DefaultDueDay. Stored due_day values
// are trusted as-is; the 1-31 range is enforced only at creation.
func ResolveDueDay(db *gorm.DB, clientID, planID uint) (day int, scope string, err error) {
	var cfg models.DueDateConfig

	err = db.Where("client_id = ? AND is_active = ?", clientID, true).First(&cfg).Error
	if err == nil {
		return cfg.DueDay, models.DueDateScopeClient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", err
	}

	err = db.Where("plan_id = ? AND is_active = ?", planID, true).First(&cfg).Error
	if err == nil {
		return cfg.DueDay, models.DueDateScopePlan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", err
	}

	err = db.Where("client_id IS NULL AND plan_id IS NULL AND is_active = ?", true).First(&cfg).Error
	if err == nil {
		return cfg.DueDay, models.DueDateScopeGlobal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", err
	}

	return DefaultDueDay, models.DueDateScopeGlobal, nil
}

// ResolveDueDate computes the concrete due date for a contract's next title.
// The billing convention is fixed one-month-ahead: base_date always advances
// a calendar month, regardless of where in its month it falls, and the day is
// then clamped to the target month's length (day 31 in February -> Feb 28/29).
func ResolveDueDate(db *gorm.DB, clientID, planID uint, baseDate time.Time) (time.Time, error) {
	day, _, err := ResolveDueDay(db, clientID, planID)
	if err != nil {
		return time.Time{}, err
	}
	return NextDueDate(baseDate, day), nil
}

// NextDueDate applies the one-month-ahead convention to an explicit due day.
func NextDueDate(baseDate time.Time, dueDay int) time.Time {
	year, month, _ := baseDate.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	if last := lastDayOfMonth(year, month); dueDay > last {
		dueDay = last
	}
	return time.Date(year, month, dueDay, 0, 0, 0, 0, baseDate.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the following month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CreateDueDateConfig inserts a new active rule for a scope. The duplicate
// check locks the existing active rows for the same scope so two concurrent
// creators serialize instead of racing past a plain pre-check; the partial
// unique index added in database.Migrate backstops it at the storage layer.
// Call inside the request transaction.
func CreateDueDateConfig(db *gorm.DB, in DueDateConfigInput) (*models.DueDateConfig, error) {
	if in.DueDay < 1 || in.DueDay > 31 {
		return nil, validationErr("due_day must be between 1 and 31")
	}
	if in.ClientId != nil && in.PlanId != nil {
		return nil, validationErr("client_id and plan_id are mutually exclusive")
	}

	if in.ClientId != nil {
		var client models.Client
		if err := db.First(&client, *in.ClientId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("client", *in.ClientId)
			}
			return nil, err
		}
	}
	if in.PlanId != nil {
		var plan models.Plan
		if err := db.First(&plan, *in.PlanId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("plan", *in.PlanId)
			}
			return nil, err
		}
	}

	scoped := lockForUpdate(db).
		Model(&models.DueDateConfig{}).
		Where("is_active = ?", true)
	switch {
	case in.ClientId != nil:
		scoped = scoped.Where("client_id = ?", *in.ClientId)
	case in.PlanId != nil:
		scoped = scoped.Where("plan_id = ?", *in.PlanId)
	default:
		scoped = scoped.Where("client_id IS NULL AND plan_id IS NULL")
	}

	var count int64
	if err := scoped.Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateConfig
	}

	cfg := models.DueDateConfig{
		ClientId: in.ClientId,
		PlanId:   in.PlanId,
		DueDay:   in.DueDay,
		IsActive: true,
	}
	if err := db.Create(&cfg).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateConfig
		}
		return nil, err
	}
	return &cfg, nil
}

// DeactivateDueDateConfig retires a rule; resolution falls through to the
// next scope in the cascade afterwards.
func DeactivateDueDateConfig(db *gorm.DB, id uint) (*models.DueDateConfig, error) {
	var cfg models.DueDateConfig
	if err := db.First(&cfg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("due-date config", id)
		}
		return nil, err
	}
	cfg.IsActive = false
	if err := db.Model(&cfg).Select("is_active").Updates(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}
