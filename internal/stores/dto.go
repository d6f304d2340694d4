package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/basketwise/basketwise-backend/pkg/db/models"
)

// HeadquartersDTO is the brand wire shape.
type HeadquartersDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Website   *string   `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreDTO is the store wire shape.
type StoreDTO struct {
	ID        uuid.UUID  `json:"id"`
	HQID      uuid.UUID  `json:"hq_id"`
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	Lat       *float64   `json:"lat,omitempty"`
	Lng       *float64   `json:"lng,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateHQInput carries the admin headquarters payload.
type CreateHQInput struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	Website *string `json:"website,omitempty" validate:"omitempty,url"`
}

// CreateStoreInput carries the admin store payload.
type CreateStoreInput struct {
	HQID     uuid.UUID  `json:"hq_id" validate:"required"`
	Name     string     `json:"name" validate:"required,min=1,max=200"`
	Location string     `json:"location" validate:"required,min=1,max=300"`
	Lat      *float64   `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng      *float64   `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	Phone    *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string    `json:"email,omitempty" validate:"omitempty,email"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
}

// UpdateStoreInput carries the admin store update payload.
type UpdateStoreInput struct {
	Name     *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Location *string    `json:"location,omitempty" validate:"omitempty,min=1,max=300"`
	Lat      *float64   `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng      *float64   `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	Phone    *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    *string    `json:"email,omitempty" validate:"omitempty,email"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
}

func hqToDTO(hq *models.Headquarters) HeadquartersDTO {
	return HeadquartersDTO{
		ID:        hq.ID,
		Name:      hq.Name,
		Website:   hq.Website,
		CreatedAt: hq.CreatedAt,
	}
}

func storeToDTO(store *models.Store) StoreDTO {
	return StoreDTO{
		ID:        store.ID,
		HQID:      store.HQID,
		Name:      store.Name,
		Location:  store.Location,
		Lat:       store.Lat,
		Lng:       store.Lng,
		Phone:     store.Phone,
		Email:     store.Email,
		OwnerID:   store.OwnerID,
		CreatedAt: store.CreatedAt,
	}
}
