package gorm

import "time"

// PriceSnapshot is an immutable observed fare. Rows are only ever inserted.
type PriceSnapshot struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RouteID       int64     `gorm:"column:route_id;not null;index;index:idx_snapshots_route_airline,priority:1"`
	AirlineCode   string    `gorm:"column:airline_code;type:varchar(3);not null;index;index:idx_snapshots_route_airline,priority:2"`
	Price         float64   `gorm:"column:price;type:numeric(10,2);not null"`
	Currency      string    `gorm:"column:currency;type:varchar(3);not null;default:USD"`
	CabinClass    string    `gorm:"column:cabin_class;type:varchar(20);not null;default:ECONOMY"`
	DepartureDate string    `gorm:"column:departure_date;type:varchar(10)"`
	ReturnDate    *string   `gorm:"column:return_date;type:varchar(10)"`
	FetchedAt     time.Time `gorm:"column:fetched_at;not null;index"`
	Source        string    `gorm:"column:source;type:varchar(20);not null"`

	Route   Route   `gorm:"foreignKey:RouteID;references:ID;constraint:OnDelete:RESTRICT"`
	Airline Airline `gorm:"foreignKey:AirlineCode;references:IATACode;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for GORM
func (PriceSnapshot) TableName() string {
	return "price_snapshots"
}
