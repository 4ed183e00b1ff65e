package entity

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is the tenant every other record belongs to
type Clinic struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name                 string    `gorm:"type:varchar(255);not null" json:"name"`
	Timezone             string    `gorm:"type:varchar(64);not null;default:'America/Sao_Paulo'" json:"timezone"`
	Phone                string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address              string    `gorm:"type:text" json:"address,omitempty"`
	StripeCustomerID     string    `gorm:"type:varchar(255);index" json:"-"`
	StripeSubscriptionID string    `gorm:"type:varchar(255);index" json:"-"`
	SubscriptionStatus   string    `gorm:"type:varchar(50);not null;default:'none'" json:"subscription_status"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Clinic) TableName() string {
	return "clinics"
}

// Subscription status values mirrored from the payment processor
const (
	SubscriptionStatusNone     = "none"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
)
