package models

// Due-day rule scopes, from most to least specific.
const (
	DueDateScopeClient = "client"
	DueDateScopePlan   = "plan"
	DueDateScopeGlobal = "global"
)

// DueDateConfig decides which day of the month a contract's titles fall due.
// ClientId and PlanId are mutually exclusive; both nil means the global rule.
// Uniqueness of the active rule per scope is enforced by a partial unique
// index (see database.Migrate), not just the pre-check in the service.
type DueDateConfig struct {
	Id       uint  `json:"id" gorm:"primaryKey"`
	ClientId *uint `json:"client_id" gorm:"index"`
	PlanId   *uint `json:"plan_id" gorm:"index"`
	DueDay   int   `json:"due_day" gorm:"not null"`
	IsActive bool  `json:"is_active" gorm:"default:true"`
}

// Scope reports which level of the priority cascade this config sits at.
func (c *DueDateConfig) Scope() string {
	switch {
	case c.ClientId != nil:
		return DueDateScopeClient
	case c.PlanId != nil:
		return DueDateScopePlan
	default:
		return DueDateScopeGlobal
	}
}
