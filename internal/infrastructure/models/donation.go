package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Donor is stored inline on the donation row with a donor_ prefix
type Donor struct {
	Name      string `gorm:"type:varchar(255)"`
	Email     string `gorm:"type:varchar(255);index"`
	Anonymous bool   `gorm:"not null;default:false"`
}

// Donation has no foreign key on CharityID: a well-formed id of a charity
// that is not stored is kept as-is.
type Donation struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Donor         Donor           `gorm:"embedded;embeddedPrefix:donor_"`
	CharityID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	PaymentID     *string         `gorm:"type:varchar(255)"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReceiptSent   bool            `gorm:"not null;default:false"`
	ReceiptNumber string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	Message       *string         `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"index"`
}

func (Donation) TableName() string {
	return "donations"
}
