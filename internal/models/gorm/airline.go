package gorm

import "time"

// Airline is a monitored carrier, keyed by IATA code
type Airline struct {
	IATACode  string    `gorm:"column:iata_code;primaryKey;type:varchar(3)"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	Alliance  string    `gorm:"column:alliance;type:varchar(30);not null;default:oneworld"`
	Country   string    `gorm:"column:country;type:varchar(100)"`
	LogoURL   *string   `gorm:"column:logo_url;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Airline) TableName() string {
	return "airlines"
}
