// model.go this code defines the data model for the application
package datastore

import "time"

// Plant verification statuses gate which records appear in public listings.
const (
	PlantPending  = "pending"
	PlantVerified = "verified"
	PlantRejected = "rejected"
)

// Contribution moderation statuses.
const (
	ContributionPending  = "pending"
	ContributionApproved = "approved"
	ContributionRejected = "rejected"
)

// Notification delivery statuses.
const (
	NotificationPending   = "pending"
	NotificationSent      = "sent"
	NotificationDelivered = "delivered"
	NotificationFailed    = "failed"
)

// Notification channels.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelReminder = "reminder"
)

// User represents a registered participant
type User struct {
	ID                uint   `gorm:"primaryKey"`
	Username          string `gorm:"uniqueIndex;not null"`
	Email             string `gorm:"index"`
	DisplayName       string
	IsAdmin           bool
	ContributionCount int
	Badges            []UserBadge `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // One-to-many relationship with cascade delete
	CreatedAt         time.Time   `gorm:"index"`
	UpdatedAt         time.Time
}

// UserBadge represents an achievement marker awarded at contribution milestones.
// The unique index makes badge awards idempotent at the schema level.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:idx_user_badges_user_name,unique;not null"`
	Name      string    `gorm:"index:idx_user_badges_user_name,unique;type:varchar(64)"`
	AwardedAt time.Time `gorm:"index"`
}

// Plant represents one plant's knowledge entry with multilingual text fields
type Plant struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"index:idx_plants_name;not null"`
	ScientificName     string `gorm:"index:idx_plants_sciname"`
	HindiName          string
	Description        string             `gorm:"type:text"`
	Uses               string             `gorm:"type:text"`
	Preparation        string             `gorm:"type:text"`
	Region             string             // region where the plant is commonly found
	VerificationStatus string             `gorm:"type:varchar(20);index;default:pending"`
	ContributorID      uint               `gorm:"index"`
	Translations       []PlantTranslation `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time          `gorm:"index"`
	UpdatedAt          time.Time
}

// PlantTranslation holds localized display text for one plant in one language.
type PlantTranslation struct {
	ID          uint   `gorm:"primaryKey"`
	PlantID     uint   `gorm:"index:idx_plant_translations_plant_lang,unique;not null"`
	Language    string `gorm:"index:idx_plant_translations_plant_lang,unique;type:varchar(8)"` // BCP 47 tag
	Name        string
	Uses        string `gorm:"type:text"`
	Preparation string `gorm:"type:text"`
}

// Contribution represents a proposed knowledge addition tied to a plant
type Contribution struct {
	ID              uint `gorm:"primaryKey"`
	PlantID         uint `gorm:"index;not null"`
	UserID          uint `gorm:"index"`
	ContributorName string
	Content         string    `gorm:"type:text"`
	Language        string    `gorm:"type:varchar(8)"`
	Status          string    `gorm:"type:varchar(20);index;default:pending"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

// PlantImage represents a photo associated with a plant
type PlantImage struct {
	ID        uint   `gorm:"primaryKey"`
	PlantID   uint   `gorm:"index;not null"`
	URL       string `gorm:"not null"`
	Caption   string
	Likes     int
	CreatedAt time.Time `gorm:"index"`
}

// Identification records one AI/manual identification attempt.
// PlantID is nil when the attempt did not resolve to a known plant.
type Identification struct {
	ID             uint  `gorm:"primaryKey"`
	PlantImageID   *uint `gorm:"index"`
	ImageURL       string
	PlantID        *uint `gorm:"index"`
	ScientificName string
	Confidence     float64 // 0-100
	IsUnknown      bool    `gorm:"index"`
	Provider       string  `gorm:"type:varchar(32)"` // which provider produced the result
	Candidates     []IdentificationCandidate `gorm:"foreignKey:IdentificationID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time `gorm:"index"`
}

// IdentificationCandidate is one ranked label from the classifier's top-k output.
type IdentificationCandidate struct {
	ID               uint   `gorm:"primaryKey"`
	IdentificationID uint   `gorm:"index;not null"`
	Label            string `gorm:"not null"`
	Confidence       float64
	Rank             int
}

// Discussion represents a threaded comment on an unknown or ambiguous identification
type Discussion struct {
	ID               uint   `gorm:"primaryKey"`
	IdentificationID uint   `gorm:"index;not null"`
	Author           string `gorm:"not null"`
	Role             string `gorm:"type:varchar(20)"` // "user" or "expert"
	Content          string `gorm:"type:text"`
	Resolved         bool
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

// VoiceRecording represents an audio contribution with optional transcript
type VoiceRecording struct {
	ID              uint   `gorm:"primaryKey"`
	ContributionID  uint   `gorm:"index;not null"`
	AudioURL        string `gorm:"not null"`
	Transcript      string `gorm:"type:text"`
	Language        string `gorm:"type:varchar(8)"`
	DurationSeconds float64
	CreatedAt       time.Time `gorm:"index"`
}

// Notification represents an outbound message record
type Notification struct {
	ID          uint   `gorm:"primaryKey"`
	Recipient   string `gorm:"index;not null"`
	Channel     string `gorm:"type:varchar(16)"`
	Message     string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(16);index;default:pending"`
	ProviderRef string // delivery reference returned by the provider, if any
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}
