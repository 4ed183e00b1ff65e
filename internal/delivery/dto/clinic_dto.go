package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateClinicRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=255"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Address  string `json:"address" validate:"omitempty"`
}

type ClinicResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Timezone           string    `json:"timezone"`
	Phone              string    `json:"phone,omitempty"`
	Address            string    `json:"address,omitempty"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
