package billing

import "time"

// Customer is created at account signup (outside this service). The
// webhook flow only mutates its subscription labels.
type Customer struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             string `gorm:"column:user_id;not null;uniqueIndex:idx_customers_user_id"`
	SubscriptionStatus string `gorm:"column:subscription_status"`
	SubscriptionTier   string `gorm:"column:subscription_tier"`
	UpdatedAt          time.Time
}

func (Customer) TableName() string { return "customers" }
