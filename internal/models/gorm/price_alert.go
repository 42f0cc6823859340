package gorm

import "time"

// PriceAlert watches a route for a fare at or below TargetPrice.
// TriggeredAt moves from nil to non-nil at most once.
type PriceAlert struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	RouteID     int64      `gorm:"column:route_id;not null;index"`
	AirlineCode *string    `gorm:"column:airline_code;type:varchar(3)"`
	TargetPrice float64    `gorm:"column:target_price;type:numeric(10,2);not null"`
	Email       string     `gorm:"column:email;type:varchar(255);not null"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true;index:idx_alerts_pending,priority:1"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	TriggeredAt *time.Time `gorm:"column:triggered_at;index:idx_alerts_pending,priority:2"`

	Route Route `gorm:"foreignKey:RouteID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (PriceAlert) TableName() string {
	return "price_alerts"
}
