package models

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CalificationCategory names one sub-dimension of a qualification
type CalificationCategory string

const (
	CategoryQuality       CalificationCategory = "quality"
	CategoryTime          CalificationCategory = "time"
	CategoryPackaging     CalificationCategory = "packaging"
	CategoryCommunication CalificationCategory = "communication"
)

// CalificationCategories lists every category in wire order
var CalificationCategories = []CalificationCategory{
	CategoryQuality,
	CategoryTime,
	CategoryPackaging,
	CategoryCommunication,
}

// JSONKey is the request/response key carrying this category, e.g. "qualityCalification".
func (c CalificationCategory) JSONKey() string {
	return string(c) + "Calification"
}

// Calification is a scored sub-rating owned by a Qualification
type Calification struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	QualificationID uint                 `gorm:"not null;uniqueIndex:idx_calification_qualification_category" json:"-"`
	Category        CalificationCategory `gorm:"type:varchar(20);not null;uniqueIndex:idx_calification_qualification_category" json:"-"`
	Score           float64              `gorm:"not null;default:0" json:"score"`
	Comments        string               `gorm:"type:text" json:"comments"`
}

// Qualification is the rating left for a donation between two parties
type Qualification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	DonationID     string    `gorm:"type:varchar(100);not null;index" json:"donationId"`
	CompanyID      string    `gorm:"type:varchar(100);index" json:"companyId"`
	DonatorID      string    `gorm:"type:varchar(100);index" json:"donatorId"`
	OrganizationID string    `gorm:"type:varchar(100);not null" json:"organizationId"`
	GeneralScore   float64   `gorm:"not null;default:0" json:"generalScore"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Califications []Calification `gorm:"foreignKey:QualificationID;constraint:OnDelete:CASCADE" json:"-"`
}

// Calification returns the sub-rating for category, or nil when the qualification has none.
func (q *Qualification) Calification(category CalificationCategory) *Calification {
	for i := range q.Califications {
		if q.Califications[i].Category == category {
			return &q.Califications[i]
		}
	}
	return nil
}

// MarshalJSON exposes sub-ratings under their per-category keys
func (q Qualification) MarshalJSON() ([]byte, error) {
	type plain Qualification

	return json.Marshal(struct {
		plain
		QualityCalification       *Calification `json:"qualityCalification,omitempty"`
		TimeCalification          *Calification `json:"timeCalification,omitempty"`
		PackagingCalification     *Calification `json:"packagingCalification,omitempty"`
		CommunicationCalification *Calification `json:"communicationCalification,omitempty"`
	}{
		plain:                     plain(q),
		QualityCalification:       q.Calification(CategoryQuality),
		TimeCalification:          q.Calification(CategoryTime),
		PackagingCalification:     q.Calification(CategoryPackaging),
		CommunicationCalification: q.Calification(CategoryCommunication),
	})
}
