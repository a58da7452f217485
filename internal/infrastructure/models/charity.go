package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Charity struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name               string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description        string          `gorm:"type:text"`
	Category           *string         `gorm:"type:varchar(50);index"`
	Website            *string         `gorm:"type:varchar(512)"`
	Logo               *string         `gorm:"type:varchar(512)"`
	VerificationStatus string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	SubmittedByName    *string         `gorm:"type:varchar(255)"`
	SubmittedByEmail   *string         `gorm:"type:varchar(255)"`
	SubmissionReason   *string         `gorm:"type:text"`
	SubmittedAt        *time.Time
	TotalDonations     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	DonationCount      int64           `gorm:"not null;default:0"`
	CreatedAt          time.Time       `gorm:"index"`
	UpdatedAt          time.Time
}

func (Charity) TableName() string {
	return "charities"
}
