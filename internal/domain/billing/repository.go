package billing

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the webhook reconciler.
type Repository interface {
	CountSubscriptionsByUser(userID string) (int64, error)
	UpsertSubscription(sub *Subscription) error
	UpdateCustomerSubscription(userID, status, tier string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CountSubscriptionsByUser(userID string) (int64, error) {
	var n int64
	err := r.db.Model(&Subscription{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *gormRepository) UpsertSubscription(sub *Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_subscription_id",
			"stripe_customer_id",
			"plan_id",
			"status",
			"current_period_end",
			"cancel_at",
			"updated_at",
		}),
	}).Create(sub).Error
}

// UpdateCustomerSubscription mutates the pre-existing customer row. A row
// that does not exist matches zero rows and is not an error, same as the
// original update-by-user_id behavior.
func (r *gormRepository) UpdateCustomerSubscription(userID, status, tier string) error {
	return r.db.Model(&Customer{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_status": status,
			"subscription_tier":   tier,
			"updated_at":          time.Now(),
		}).Error
}
