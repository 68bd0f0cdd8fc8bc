package models

// Client is an ISP subscriber (pessoa física or jurídica).
type Client struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Document    string `json:"document" gorm:"size:14;unique;not null"` // CPF or CNPJ, digits only
	Email       string `json:"email" gorm:"unique;not null"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address" gorm:"not null"`
	City        string `json:"city" gorm:"not null"`
	State       string `json:"state" gorm:"size:2;not null"`
	Zip         string `json:"zip" gorm:"not null"`
	Active      bool   `json:"active" gorm:"default:true"`
}
