// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mediplant/mediplant-go/internal/conf"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sentinel errors shared by all store implementations.
var (
	// ErrNotFound signals that the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition signals an attempt to move a record out of a terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// MinSearchQueryLength is the minimum number of runes a search query must have.
// Shorter queries return an empty result instead of an error.
const MinSearchQueryLength = 2

// Interface abstracts the underlying storage implementation and defines the
// operations available over the platform's entities. Two implementations
// exist: the GORM-backed DataStore (SQLite or MySQL) and the seeded
// in-memory MemoryStore used for development runs.
type Interface interface {
	Open() error
	Close() error

	// users
	CreateUser(user *User) error
	GetUser(id string) (User, error)
	GetUserByUsername(username string) (User, error)
	AddUserBadge(userID uint, name string) (User, error)
	GetUserBadges(userID uint) ([]UserBadge, error)
	IncrementContributionCount(userID uint) (User, error)
	SetUserAdmin(id string, isAdmin bool) (User, error)

	// plants
	CreatePlant(plant *Plant) error
	GetPlant(id string) (Plant, error)
	GetAllPlants() ([]Plant, error)
	GetPlantsByStatus(status string) ([]Plant, error)
	SearchPlants(query string, limit, offset int) ([]Plant, error)
	UpdatePlantStatus(id, status string) (Plant, error)
	UpsertPlantTranslation(translation *PlantTranslation) error
	GetPlantTranslations(plantID uint) ([]PlantTranslation, error)

	// contributions
	CreateContribution(contribution *Contribution) error
	GetContribution(id string) (Contribution, error)
	GetContributionsByStatus(status string) ([]Contribution, error)
	GetContributionsForPlant(plantID uint) ([]Contribution, error)
	UpdateContributionStatus(id, status string) (Contribution, error)

	// images
	CreatePlantImage(image *PlantImage) error
	GetPlantImage(id string) (PlantImage, error)
	GetPlantImages(plantID uint) ([]PlantImage, error)
	LikePlantImage(id string) (PlantImage, error)

	// identifications
	CreateIdentification(ident *Identification, candidates []IdentificationCandidate) error
	CreateIdentificationWithPlant(ident *Identification, plant *Plant, candidates []IdentificationCandidate) error
	GetIdentification(id string) (Identification, error)
	GetUnknownIdentifications(limit, offset int) ([]Identification, error)

	// discussions
	CreateDiscussion(discussion *Discussion) error
	GetDiscussionsForIdentification(identificationID uint) ([]Discussion, error)
	ResolveDiscussion(id string) (Discussion, error)

	// voice recordings
	CreateVoiceRecording(recording *VoiceRecording) error
	GetVoiceRecording(id string) (VoiceRecording, error)
	GetRecordingsForContribution(contributionID uint) ([]VoiceRecording, error)

	// notifications
	CreateNotification(notification *Notification) error
	GetNotification(id string) (Notification, error)
	GetNotifications(limit, offset int) ([]Notification, error)
	UpdateNotificationStatus(id, status string) (Notification, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a store instance based on the provided configuration.
// Selection happens once at process start: SQLite or MySQL when configured,
// otherwise the seeded in-memory development store.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return NewMemoryStore()
	}
}

// parseID converts a string id from the API boundary to the uint primary key.
func parseID(id string) (uint, error) {
	parsed, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("converting ID to integer: %w", err)
	}
	return uint(parsed), nil
}

// translateError maps GORM's not-found error to the store-level sentinel.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// plantTransitionValid reports whether a plant may move from current to next.
// Verified and rejected are terminal.
func plantTransitionValid(current, next string) bool {
	switch next {
	case PlantPending, PlantVerified, PlantRejected:
	default:
		return false
	}
	return current == PlantPending
}

// contributionTransitionValid reports whether a contribution may move from
// current to next. Approved and rejected are terminal.
func contributionTransitionValid(current, next string) bool {
	switch next {
	case ContributionPending, ContributionApproved, ContributionRejected:
	default:
		return false
	}
	return current == ContributionPending
}

// notificationTransitionValid reports whether a notification delivery status
// change is allowed. Delivered and failed are terminal; sent may still be
// confirmed or failed by a delivery callback.
func notificationTransitionValid(current, next string) bool {
	switch next {
	case NotificationSent, NotificationDelivered, NotificationFailed:
	default:
		return false
	}
	return current == NotificationPending || current == NotificationSent
}

// searchPattern lowers and wraps the query for a LIKE match.
func searchPattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}

// --- users ---

// CreateUser stores a new user. The id and creation timestamp are assigned
// by the store; any client-supplied id is discarded.
func (ds *DataStore) CreateUser(user *User) error {
	user.ID = 0
	if err := ds.DB.Create(user).Error; err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUser retrieves a user with badges by its ID.
func (ds *DataStore) GetUser(id string) (User, error) {
	userID, err := parseID(id)
	if err != nil {
		return User{}, err
	}

	var user User
	if err := ds.DB.Preload("Badges").First(&user, userID).Error; err != nil {
		return User{}, translateError(err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by its unique handle.
func (ds *DataStore) GetUserByUsername(username string) (User, error) {
	var user User
	if err := ds.DB.Preload("Badges").Where("username = ?", username).First(&user).Error; err != nil {
		return User{}, translateError(err)
	}
	return user, nil
}

// AddUserBadge awards a badge to a user. Awarding the same badge twice is a
// no-op thanks to the unique (user_id, name) index.
func (ds *DataStore) AddUserBadge(userID uint, name string) (User, error) {
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.First(&user, userID).Error; err != nil {
			return translateError(err)
		}

		var existing UserBadge
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error
		if err == nil {
			return nil // already awarded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		badge := UserBadge{UserID: userID, Name: name, AwardedAt: time.Now()}
		return tx.Create(&badge).Error
	})
	if err != nil {
		return User{}, fmt.Errorf("awarding badge %q: %w", name, err)
	}

	return ds.GetUser(strconv.FormatUint(uint64(userID), 10))
}

// GetUserBadges returns all badges for a user, newest first.
func (ds *DataStore) GetUserBadges(userID uint) ([]UserBadge, error) {
	var badges []UserBadge
	err := ds.DB.Where("user_id = ?", userID).
		Order("awarded_at DESC, id DESC").
		Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("getting badges for user %d: %w", userID, err)
	}
	return badges, nil
}

// IncrementContributionCount bumps a user's contribution counter by one and
// returns the updated user.
func (ds *DataStore) IncrementContributionCount(userID uint) (User, error) {
	result := ds.DB.Model(&User{}).Where("id = ?", userID).
		UpdateColumn("contribution_count", gorm.Expr("contribution_count + 1"))
	if result.Error != nil {
		return User{}, fmt.Errorf("incrementing contribution count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return User{}, ErrNotFound
	}
	return ds.GetUser(strconv.FormatUint(uint64(userID), 10))
}

// SetUserAdmin toggles the admin flag on a user.
func (ds *DataStore) SetUserAdmin(id string, isAdmin bool) (User, error) {
	userID, err := parseID(id)
	if err != nil {
		return User{}, err
	}

	result := ds.DB.Model(&User{}).Where("id = ?", userID).Update("is_admin", isAdmin)
	if result.Error != nil {
		return User{}, fmt.Errorf("updating admin flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return User{}, ErrNotFound
	}
	return ds.GetUser(id)
}

// --- plants ---

// CreatePlant stores a new plant record. Status defaults to pending unless
// set by the caller before the moderation flow.
func (ds *DataStore) CreatePlant(plant *Plant) error {
	plant.ID = 0
	if plant.VerificationStatus == "" {
		plant.VerificationStatus = PlantPending
	}
	if err := ds.DB.Create(plant).Error; err != nil {
		return fmt.Errorf("creating plant: %w", err)
	}
	return nil
}

// GetPlant retrieves a plant with translations by its ID.
func (ds *DataStore) GetPlant(id string) (Plant, error) {
	plantID, err := parseID(id)
	if err != nil {
		return Plant{}, err
	}

	var plant Plant
	if err := ds.DB.Preload("Translations").First(&plant, plantID).Error; err != nil {
		return Plant{}, translateError(err)
	}
	return plant, nil
}

// GetAllPlants returns the public plant listing: verified records only,
// newest first.
func (ds *DataStore) GetAllPlants() ([]Plant, error) {
	return ds.GetPlantsByStatus(PlantVerified)
}

// GetPlantsByStatus returns plants with the given verification status, newest first.
func (ds *DataStore) GetPlantsByStatus(status string) ([]Plant, error) {
	var plants []Plant
	err := ds.DB.Preload("Translations").
		Where("verification_status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&plants).Error
	if err != nil {
		return nil, fmt.Errorf("getting plants by status %q: %w", status, err)
	}
	return plants, nil
}

// SearchPlants performs a case-insensitive substring search across the
// plant's text fields. Queries shorter than MinSearchQueryLength return an
// empty result.
func (ds *DataStore) SearchPlants(query string, limit, offset int) ([]Plant, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQueryLength {
		return []Plant{}, nil
	}

	pattern := searchPattern(query)
	var plants []Plant
	err := ds.DB.Preload("Translations").
		Where("LOWER(name) LIKE ? OR LOWER(scientific_name) LIKE ? OR LOWER(hindi_name) LIKE ? OR LOWER(uses) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern, pattern, pattern).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&plants).Error
	if err != nil {
		return nil, fmt.Errorf("searching plants: %w", err)
	}
	return plants, nil
}

// UpdatePlantStatus moves a plant through the moderation state machine.
// Verified and rejected are terminal; attempts to leave them fail with
// ErrInvalidTransition.
func (ds *DataStore) UpdatePlantStatus(id, status string) (Plant, error) {
	plantID, err := parseID(id)
	if err != nil {
		return Plant{}, err
	}

	var plant Plant
	err = ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plant, plantID).Error; err != nil {
			return translateError(err)
		}
		if plant.VerificationStatus == status {
			return nil
		}
		if !plantTransitionValid(plant.VerificationStatus, status) {
			return ErrInvalidTransition
		}
		plant.VerificationStatus = status
		return tx.Model(&plant).Update("verification_status", status).Error
	})
	if err != nil {
		return Plant{}, err
	}
	return plant, nil
}

// UpsertPlantTranslation creates or replaces the localized text for one
// plant in one language.
func (ds *DataStore) UpsertPlantTranslation(translation *PlantTranslation) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		var existing PlantTranslation
		err := tx.Where("plant_id = ? AND language = ?", translation.PlantID, translation.Language).
			First(&existing).Error
		if err == nil {
			translation.ID = existing.ID
			return tx.Save(translation).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		translation.ID = 0
		return tx.Create(translation).Error
	})
}

// GetPlantTranslations returns all localized texts for a plant.
func (ds *DataStore) GetPlantTranslations(plantID uint) ([]PlantTranslation, error) {
	var translations []PlantTranslation
	err := ds.DB.Where("plant_id = ?", plantID).Order("language ASC").Find(&translations).Error
	if err != nil {
		return nil, fmt.Errorf("getting translations for plant %d: %w", plantID, err)
	}
	return translations, nil
}

// --- contributions ---

// CreateContribution stores a new contribution with status pending.
func (ds *DataStore) CreateContribution(contribution *Contribution) error {
	contribution.ID = 0
	if contribution.Status == "" {
		contribution.Status = ContributionPending
	}
	if err := ds.DB.Create(contribution).Error; err != nil {
		return fmt.Errorf("creating contribution: %w", err)
	}
	return nil
}

// GetContribution retrieves a contribution by its ID.
func (ds *DataStore) GetContribution(id string) (Contribution, error) {
	contributionID, err := parseID(id)
	if err != nil {
		return Contribution{}, err
	}

	var contribution Contribution
	if err := ds.DB.First(&contribution, contributionID).Error; err != nil {
		return Contribution{}, translateError(err)
	}
	return contribution, nil
}

// GetContributionsByStatus returns contributions with the given status, newest first.
func (ds *DataStore) GetContributionsByStatus(status string) ([]Contribution, error) {
	var contributions []Contribution
	err := ds.DB.Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&contributions).Error
	if err != nil {
		return nil, fmt.Errorf("getting contributions by status %q: %w", status, err)
	}
	return contributions, nil
}

// GetContributionsForPlant returns all contributions tied to a plant, newest first.
func (ds *DataStore) GetContributionsForPlant(plantID uint) ([]Contribution, error) {
	var contributions []Contribution
	err := ds.DB.Where("plant_id = ?", plantID).
		Order("created_at DESC, id DESC").
		Find(&contributions).Error
	if err != nil {
		return nil, fmt.Errorf("getting contributions for plant %d: %w", plantID, err)
	}
	return contributions, nil
}

// UpdateContributionStatus moves a contribution through the moderation state
// machine. Approved and rejected are terminal.
func (ds *DataStore) UpdateContributionStatus(id, status string) (Contribution, error) {
	contributionID, err := parseID(id)
	if err != nil {
		return Contribution{}, err
	}

	var contribution Contribution
	err = ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contribution, contributionID).Error; err != nil {
			return translateError(err)
		}
		if contribution.Status == status {
			return nil
		}
		if !contributionTransitionValid(contribution.Status, status) {
			return ErrInvalidTransition
		}
		contribution.Status = status
		return tx.Model(&contribution).Update("status", status).Error
	})
	if err != nil {
		return Contribution{}, err
	}
	return contribution, nil
}

// --- images ---

// CreatePlantImage stores a new plant image.
func (ds *DataStore) CreatePlantImage(image *PlantImage) error {
	image.ID = 0
	if err := ds.DB.Create(image).Error; err != nil {
		return fmt.Errorf("creating plant image: %w", err)
	}
	return nil
}

// GetPlantImage retrieves an image by its ID.
func (ds *DataStore) GetPlantImage(id string) (PlantImage, error) {
	imageID, err := parseID(id)
	if err != nil {
		return PlantImage{}, err
	}

	var image PlantImage
	if err := ds.DB.First(&image, imageID).Error; err != nil {
		return PlantImage{}, translateError(err)
	}
	return image, nil
}

// GetPlantImages returns all images for a plant, newest first.
func (ds *DataStore) GetPlantImages(plantID uint) ([]PlantImage, error) {
	var images []PlantImage
	err := ds.DB.Where("plant_id = ?", plantID).
		Order("created_at DESC, id DESC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("getting images for plant %d: %w", plantID, err)
	}
	return images, nil
}

// LikePlantImage increments an image's like counter and returns the updated image.
func (ds *DataStore) LikePlantImage(id string) (PlantImage, error) {
	imageID, err := parseID(id)
	if err != nil {
		return PlantImage{}, err
	}

	result := ds.DB.Model(&PlantImage{}).Where("id = ?", imageID).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if result.Error != nil {
		return PlantImage{}, fmt.Errorf("liking image %d: %w", imageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return PlantImage{}, ErrNotFound
	}
	return ds.GetPlantImage(id)
}

// --- identifications ---

// CreateIdentification stores an identification attempt and its ranked
// candidate labels as a single transaction.
func (ds *DataStore) CreateIdentification(ident *Identification, candidates []IdentificationCandidate) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		ident.ID = 0
		if err := tx.Create(ident).Error; err != nil {
			return fmt.Errorf("creating identification: %w", err)
		}
		for i := range candidates {
			candidates[i].ID = 0
			candidates[i].IdentificationID = ident.ID
			if err := tx.Create(&candidates[i]).Error; err != nil {
				return fmt.Errorf("creating identification candidate: %w", err)
			}
		}
		return nil
	})
}

// CreateIdentificationWithPlant records an identification that names a plant
// not yet in the store. The plant (status pending) and the identification are
// created in one transaction so a partial failure cannot leave an orphaned
// identification.
func (ds *DataStore) CreateIdentificationWithPlant(ident *Identification, plant *Plant, candidates []IdentificationCandidate) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		plant.ID = 0
		if plant.VerificationStatus == "" {
			plant.VerificationStatus = PlantPending
		}
		if err := tx.Create(plant).Error; err != nil {
			return fmt.Errorf("creating plant for identification: %w", err)
		}

		ident.ID = 0
		ident.PlantID = &plant.ID
		if err := tx.Create(ident).Error; err != nil {
			return fmt.Errorf("creating identification: %w", err)
		}
		for i := range candidates {
			candidates[i].ID = 0
			candidates[i].IdentificationID = ident.ID
			if err := tx.Create(&candidates[i]).Error; err != nil {
				return fmt.Errorf("creating identification candidate: %w", err)
			}
		}
		return nil
	})
}

// GetIdentification retrieves an identification with candidates by its ID.
func (ds *DataStore) GetIdentification(id string) (Identification, error) {
	identID, err := parseID(id)
	if err != nil {
		return Identification{}, err
	}

	var ident Identification
	if err := ds.DB.Preload("Candidates").First(&ident, identID).Error; err != nil {
		return Identification{}, translateError(err)
	}
	return ident, nil
}

// GetUnknownIdentifications returns unresolved identifications open for
// discussion, newest first.
func (ds *DataStore) GetUnknownIdentifications(limit, offset int) ([]Identification, error) {
	var idents []Identification
	err := ds.DB.Preload("Candidates").
		Where("is_unknown = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&idents).Error
	if err != nil {
		return nil, fmt.Errorf("getting unknown identifications: %w", err)
	}
	return idents, nil
}

// --- discussions ---

// CreateDiscussion stores a new discussion comment.
func (ds *DataStore) CreateDiscussion(discussion *Discussion) error {
	discussion.ID = 0
	if err := ds.DB.Create(discussion).Error; err != nil {
		return fmt.Errorf("creating discussion: %w", err)
	}
	return nil
}

// GetDiscussionsForIdentification returns the discussion thread for an
// identification, newest first.
func (ds *DataStore) GetDiscussionsForIdentification(identificationID uint) ([]Discussion, error) {
	var discussions []Discussion
	err := ds.DB.Where("identification_id = ?", identificationID).
		Order("created_at DESC, id DESC").
		Find(&discussions).Error
	if err != nil {
		return nil, fmt.Errorf("getting discussions for identification %d: %w", identificationID, err)
	}
	return discussions, nil
}

// ResolveDiscussion flips a discussion's resolved flag. The flip is one-way.
func (ds *DataStore) ResolveDiscussion(id string) (Discussion, error) {
	discussionID, err := parseID(id)
	if err != nil {
		return Discussion{}, err
	}

	var discussion Discussion
	err = ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&discussion, discussionID).Error; err != nil {
			return translateError(err)
		}
		if discussion.Resolved {
			return nil
		}
		discussion.Resolved = true
		return tx.Model(&discussion).Update("resolved", true).Error
	})
	if err != nil {
		return Discussion{}, err
	}
	return discussion, nil
}

// --- voice recordings ---

// CreateVoiceRecording stores a new voice recording.
func (ds *DataStore) CreateVoiceRecording(recording *VoiceRecording) error {
	recording.ID = 0
	if err := ds.DB.Create(recording).Error; err != nil {
		return fmt.Errorf("creating voice recording: %w", err)
	}
	return nil
}

// GetVoiceRecording retrieves a voice recording by its ID.
func (ds *DataStore) GetVoiceRecording(id string) (VoiceRecording, error) {
	recordingID, err := parseID(id)
	if err != nil {
		return VoiceRecording{}, err
	}

	var recording VoiceRecording
	if err := ds.DB.First(&recording, recordingID).Error; err != nil {
		return VoiceRecording{}, translateError(err)
	}
	return recording, nil
}

// GetRecordingsForContribution returns all recordings tied to a contribution, newest first.
func (ds *DataStore) GetRecordingsForContribution(contributionID uint) ([]VoiceRecording, error) {
	var recordings []VoiceRecording
	err := ds.DB.Where("contribution_id = ?", contributionID).
		Order("created_at DESC, id DESC").
		Find(&recordings).Error
	if err != nil {
		return nil, fmt.Errorf("getting recordings for contribution %d: %w", contributionID, err)
	}
	return recordings, nil
}

// --- notifications ---

// CreateNotification stores a new outbound message record with status pending.
func (ds *DataStore) CreateNotification(notification *Notification) error {
	notification.ID = 0
	if notification.Status == "" {
		notification.Status = NotificationPending
	}
	if err := ds.DB.Create(notification).Error; err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// GetNotification retrieves a notification by its ID.
func (ds *DataStore) GetNotification(id string) (Notification, error) {
	notificationID, err := parseID(id)
	if err != nil {
		return Notification{}, err
	}

	var notification Notification
	if err := ds.DB.First(&notification, notificationID).Error; err != nil {
		return Notification{}, translateError(err)
	}
	return notification, nil
}

// GetNotifications returns outbound message records, newest first.
func (ds *DataStore) GetNotifications(limit, offset int) ([]Notification, error) {
	var notifications []Notification
	err := ds.DB.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("getting notifications: %w", err)
	}
	return notifications, nil
}

// UpdateNotificationStatus records a delivery state change from the dispatch
// path or a provider callback.
func (ds *DataStore) UpdateNotificationStatus(id, status string) (Notification, error) {
	notificationID, err := parseID(id)
	if err != nil {
		return Notification{}, err
	}

	var notification Notification
	err = ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&notification, notificationID).Error; err != nil {
			return translateError(err)
		}
		if notification.Status == status {
			return nil
		}
		if !notificationTransitionValid(notification.Status, status) {
			return ErrInvalidTransition
		}
		notification.Status = status
		return tx.Model(&notification).Update("status", status).Error
	})
	if err != nil {
		return Notification{}, err
	}
	return notification, nil
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(
		&User{}, &UserBadge{},
		&Plant{}, &PlantTranslation{},
		&Contribution{}, &PlantImage{},
		&Identification{}, &IdentificationCandidate{},
		&Discussion{}, &VoiceRecording{}, &Notification{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
