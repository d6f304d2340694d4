package ads

import (
	"time"

	"github.com/google/uuid"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
)

// AdDTO is the ad wire shape.
type AdDTO struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	ImageURL  string            `json:"image_url"`
	TargetURL *string           `json:"target_url,omitempty"`
	Placement enums.AdPlacement `json:"placement"`
	StoreID   *uuid.UUID        `json:"store_id,omitempty"`
	Active    bool              `json:"active"`
	StartsAt  *time.Time        `json:"starts_at,omitempty"`
	EndsAt    *time.Time        `json:"ends_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateAdInput carries the admin ad payload.
type CreateAdInput struct {
	Title     string     `json:"title" validate:"required,min=1,max=200"`
	ImageURL  string     `json:"image_url" validate:"required,url"`
	TargetURL *string    `json:"target_url,omitempty" validate:"omitempty,url"`
	Placement string     `json:"placement" validate:"required"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

// UpdateAdInput carries admin ad mutations.
type UpdateAdInput struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	ImageURL  *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	TargetURL *string    `json:"target_url,omitempty" validate:"omitempty,url"`
	Active    *bool      `json:"active,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

func toDTO(ad *models.Ad) AdDTO {
	return AdDTO{
		ID:        ad.ID,
		Title:     ad.Title,
		ImageURL:  ad.ImageURL,
		TargetURL: ad.TargetURL,
		Placement: ad.Placement,
		StoreID:   ad.StoreID,
		Active:    ad.Active,
		StartsAt:  ad.StartsAt,
		EndsAt:    ad.EndsAt,
		CreatedAt: ad.CreatedAt,
	}
}
