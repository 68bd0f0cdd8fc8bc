package models

// Plan is a service plan offered to clients. Fine/interest here are the
// defaults snapshotted onto Titles at billing time; editing them never
// touches already-issued titles.
type Plan struct {
	Id              uint    `json:"id" gorm:"primaryKey"`
	Name            string  `json:"name" gorm:"not null;unique"`
	MonthlyPrice    float64 `json:"monthly_price" gorm:"type:numeric(12,2)"`
	DownloadMbps    int     `json:"download_mbps"`
	UploadMbps      int     `json:"upload_mbps"`
	FinePercent     float64 `json:"fine_percent"`
	InterestPercent float64 `json:"interest_percent"`
	Active          bool    `json:"active" gorm:"default:true"`
}

// Contract binds a client to a plan. Titles are owned by the contract and
// disappear with it; remittance history survives (weak reference).
type Contract struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	ClientId    uint   `json:"client_id" gorm:"not null;index"`
	Client      Client `json:"client" gorm:"foreignKey:ClientId;references:Id"`
	PlanId      uint   `json:"plan_id" gorm:"not null;index"`
	Plan        Plan   `json:"plan" gorm:"foreignKey:PlanId;references:Id"`
	Description string `json:"description"`

	// Optional overrides of the plan defaults, nil means "use the plan's".
	FinePercent     *float64 `json:"fine_percent"`
	InterestPercent *float64 `json:"interest_percent"`

	Titles []Title `json:"-" gorm:"foreignKey:ContractId;constraint:OnDelete:CASCADE"`
	Active bool    `json:"active" gorm:"default:true"`
}
