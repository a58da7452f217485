package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// CharityCategory is the closed set of charity categories
type CharityCategory string

const (
	CategoryEducation     CharityCategory = "education"
	CategoryHealth        CharityCategory = "health"
	CategoryEnvironment   CharityCategory = "environment"
	CategoryAnimalWelfare CharityCategory = "animal_welfare"
	CategoryHumanitarian  CharityCategory = "humanitarian"
	CategoryOther         CharityCategory = "other"
)

// Valid reports whether c is one of the known categories
func (c CharityCategory) Valid() bool {
	switch c {
	case CategoryEducation, CategoryHealth, CategoryEnvironment,
		CategoryAnimalWelfare, CategoryHumanitarian, CategoryOther:
		return true
	}
	return false
}

// VerificationStatus is the admin-controlled charity lifecycle state
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether s is one of the known statuses
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// MinRequestDescriptionLength is the shortest description accepted from a public submission
const MinRequestDescriptionLength = 50

// PlaceholderCharityName names the charity created when a donation has nowhere else to go
const PlaceholderCharityName = "Unknown Charity"

// CharitySubmitter is the contact who proposed a charity through the public form
type CharitySubmitter struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Reason      string    `json:"submissionReason,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Charity represents a donation recipient.
// TotalDonations and DonationCount summarize completed donations.
type Charity struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Category           CharityCategory    `json:"category,omitempty"`
	Website            null.String        `json:"website"`
	Logo               null.String        `json:"logo"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	SubmittedBy        *CharitySubmitter  `json:"submittedBy,omitempty"`
	TotalDonations     decimal.Decimal    `json:"totalDonations"`
	DonationCount      int64              `json:"donationCount"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// CreateCharityInput is the admin create payload
type CreateCharityInput struct {
	Name               string             `json:"name" binding:"required"`
	Description        string             `json:"description"`
	Category           CharityCategory    `json:"category"`
	Website            string             `json:"website"`
	Logo               string             `json:"logo"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

// CharityRequestInput is the public submission payload
type CharityRequestInput struct {
	CharityName  string `json:"charityName"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Website      string `json:"website"`
	ContactEmail string `json:"contactEmail"`
	ContactName  string `json:"contactName"`
	Reason       string `json:"reason"`
}

// CharitySearchFilter drives the admin charity listing
type CharitySearchFilter struct {
	Query  string
	Status VerificationStatus
	Page   int
	Limit  int
}

// CharityPage is one page of the admin charity listing
type CharityPage struct {
	Data  []*Charity `json:"data"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
