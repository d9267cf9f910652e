package billing

import "time"

// Subscription mirrors the state of a user's Stripe subscription. One row
// per user: user_id is the upsert conflict target, last write wins.
type Subscription struct {
	ID                   uint   `gorm:"primaryKey"`
	UserID               string `gorm:"column:user_id;not null;uniqueIndex:idx_subscriptions_user_id"`
	StripeSubscriptionID string `gorm:"column:stripe_subscription_id"`
	StripeCustomerID     string `gorm:"column:stripe_customer_id"`
	PlanID               string `gorm:"column:plan_id"` // "monthly" | "yearly"
	Status               string // Stripe's vocabulary: active, canceled, past_due, ...
	CurrentPeriodEnd     time.Time
	CancelAt             *time.Time
	UpdatedAt            time.Time
}

func (Subscription) TableName() string { return "subscriptions" }
