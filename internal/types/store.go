package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreStatus string

const (
	StoreStatusActive    StoreStatus = "ACTIVE"
	StoreStatusSuspended StoreStatus = "SUSPENDED"
	StoreStatusClosed    StoreStatus = "CLOSED"
)

type Store struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string        `gorm:"column:description" json:"description"`
	LogoURL     string        `gorm:"column:logo_url" json:"logo_url,omitempty"`
	Status      StoreStatus   `gorm:"not null;column:status" json:"status"`
	OwnerID     uuid.UUID     `gorm:"type:uuid;not null;index;column:owner_id" json:"owner_id"`
	Address     *StoreAddress `gorm:"constraint:OnDelete:CASCADE;foreignKey:StoreID" json:"address,omitempty"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (Store) TableName() string { return "store" }

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = StoreStatusActive
	}
	return nil
}

type StoreAddress struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:store_id" json:"store_id"`
	Street       string    `gorm:"not null;column:street" json:"street"`
	Number       string    `gorm:"column:number" json:"number"`
	Complement   string    `gorm:"column:complement" json:"complement,omitempty"`
	Neighborhood string    `gorm:"column:neighborhood" json:"neighborhood"`
	City         string    `gorm:"not null;column:city" json:"city"`
	State        string    `gorm:"not null;column:state" json:"state"`
	ZipCode      string    `gorm:"not null;column:zip_code" json:"zip_code"`
	Country      string    `gorm:"not null;column:country" json:"country"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (StoreAddress) TableName() string { return "store_address" }

func (a *StoreAddress) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
