package gorm

import "time"

// Route is a monitored origin/destination pair
type Route struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Origin          string    `gorm:"column:origin;type:varchar(3);not null;uniqueIndex:idx_routes_origin_destination"`
	Destination     string    `gorm:"column:destination;type:varchar(3);not null;uniqueIndex:idx_routes_origin_destination"`
	OriginCity      string    `gorm:"column:origin_city;type:varchar(100)"`
	DestinationCity string    `gorm:"column:destination_city;type:varchar(100)"`
	Region          string    `gorm:"column:region;type:varchar(50);index"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Route) TableName() string {
	return "routes"
}
