// memory.go: seeded in-memory store for development and test runs
package datastore

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Interface with plain maps. It backs development
// runs when no database is configured: no persistence across restarts, seeded
// at startup so the UI has content. All access goes through a single RWMutex;
// the store object is constructed once at process start and injected into
// request handlers.
type MemoryStore struct {
	mu sync.RWMutex

	users           map[uint]User
	plants          map[uint]Plant
	contributions   map[uint]Contribution
	images          map[uint]PlantImage
	identifications map[uint]Identification
	discussions     map[uint]Discussion
	recordings      map[uint]VoiceRecording
	notifications   map[uint]Notification

	nextID map[string]uint
}

// NewMemoryStore constructs an empty in-memory store. Seed data is loaded
// on Open so tests can start from a clean slate with NewMemoryStore alone.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:           map[uint]User{},
		plants:          map[uint]Plant{},
		contributions:   map[uint]Contribution{},
		images:          map[uint]PlantImage{},
		identifications: map[uint]Identification{},
		discussions:     map[uint]Discussion{},
		recordings:      map[uint]VoiceRecording{},
		notifications:   map[uint]Notification{},
		nextID:          map[string]uint{},
	}
}

// Open loads the fixed sample dataset.
func (ms *MemoryStore) Open() error {
	ms.seed()
	return nil
}

// Close is a no-op for the in-memory store.
func (ms *MemoryStore) Close() error {
	return nil
}

// allocID hands out process-unique ids per entity kind.
func (ms *MemoryStore) allocID(kind string) uint {
	ms.nextID[kind]++
	return ms.nextID[kind]
}

// --- users ---

func (ms *MemoryStore) CreateUser(user *User) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	user.ID = ms.allocID("user")
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	ms.users[user.ID] = *user
	return nil
}

func (ms *MemoryStore) GetUser(id string) (User, error) {
	userID, err := parseID(id)
	if err != nil {
		return User{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	user, ok := ms.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return copyUser(user), nil
}

func (ms *MemoryStore) GetUserByUsername(username string) (User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, user := range ms.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return User{}, ErrNotFound
}

func (ms *MemoryStore) AddUserBadge(userID uint, name string) (User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	user, ok := ms.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}

	// Idempotent: a badge the user already holds is not duplicated.
	for _, badge := range user.Badges {
		if badge.Name == name {
			return copyUser(user), nil
		}
	}

	user.Badges = append(user.Badges, UserBadge{
		ID:        ms.allocID("badge"),
		UserID:    userID,
		Name:      name,
		AwardedAt: time.Now(),
	})
	ms.users[userID] = user
	return copyUser(user), nil
}

func (ms *MemoryStore) GetUserBadges(userID uint) ([]UserBadge, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	user, ok := ms.users[userID]
	if !ok {
		return nil, ErrNotFound
	}

	badges := make([]UserBadge, len(user.Badges))
	copy(badges, user.Badges)
	sort.Slice(badges, func(i, j int) bool {
		if badges[i].AwardedAt.Equal(badges[j].AwardedAt) {
			return badges[i].ID > badges[j].ID
		}
		return badges[i].AwardedAt.After(badges[j].AwardedAt)
	})
	return badges, nil
}

func (ms *MemoryStore) IncrementContributionCount(userID uint) (User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	user, ok := ms.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	user.ContributionCount++
	user.UpdatedAt = time.Now()
	ms.users[userID] = user
	return copyUser(user), nil
}

func (ms *MemoryStore) SetUserAdmin(id string, isAdmin bool) (User, error) {
	userID, err := parseID(id)
	if err != nil {
		return User{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	user, ok := ms.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	user.IsAdmin = isAdmin
	user.UpdatedAt = time.Now()
	ms.users[userID] = user
	return copyUser(user), nil
}

// --- plants ---

func (ms *MemoryStore) CreatePlant(plant *Plant) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.createPlantLocked(plant)
	return nil
}

// createPlantLocked assigns identity and stores the plant. Caller holds the lock.
func (ms *MemoryStore) createPlantLocked(plant *Plant) {
	plant.ID = ms.allocID("plant")
	plant.CreatedAt = time.Now()
	plant.UpdatedAt = plant.CreatedAt
	if plant.VerificationStatus == "" {
		plant.VerificationStatus = PlantPending
	}
	for i := range plant.Translations {
		plant.Translations[i].ID = ms.allocID("translation")
		plant.Translations[i].PlantID = plant.ID
	}
	ms.plants[plant.ID] = *plant
}

func (ms *MemoryStore) GetPlant(id string) (Plant, error) {
	plantID, err := parseID(id)
	if err != nil {
		return Plant{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	plant, ok := ms.plants[plantID]
	if !ok {
		return Plant{}, ErrNotFound
	}
	return copyPlant(plant), nil
}

func (ms *MemoryStore) GetAllPlants() ([]Plant, error) {
	return ms.GetPlantsByStatus(PlantVerified)
}

func (ms *MemoryStore) GetPlantsByStatus(status string) ([]Plant, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var plants []Plant
	for _, plant := range ms.plants {
		if plant.VerificationStatus == status {
			plants = append(plants, copyPlant(plant))
		}
	}
	sortPlantsNewestFirst(plants)
	return plants, nil
}

func (ms *MemoryStore) SearchPlants(query string, limit, offset int) ([]Plant, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQueryLength {
		return []Plant{}, nil
	}
	needle := strings.ToLower(query)

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var plants []Plant
	for _, plant := range ms.plants {
		if plantMatches(&plant, needle) {
			plants = append(plants, copyPlant(plant))
		}
	}
	sortPlantsNewestFirst(plants)
	return paginate(plants, limit, offset), nil
}

// plantMatches performs the case-insensitive substring match across the
// plant's text fields, mirroring the LIKE disjunction of the GORM store.
func plantMatches(plant *Plant, needle string) bool {
	for _, field := range []string{plant.Name, plant.ScientificName, plant.HindiName, plant.Uses, plant.Description} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (ms *MemoryStore) UpdatePlantStatus(id, status string) (Plant, error) {
	plantID, err := parseID(id)
	if err != nil {
		return Plant{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	plant, ok := ms.plants[plantID]
	if !ok {
		return Plant{}, ErrNotFound
	}
	if plant.VerificationStatus != status {
		if !plantTransitionValid(plant.VerificationStatus, status) {
			return Plant{}, ErrInvalidTransition
		}
		plant.VerificationStatus = status
		plant.UpdatedAt = time.Now()
		ms.plants[plantID] = plant
	}
	return copyPlant(plant), nil
}

func (ms *MemoryStore) UpsertPlantTranslation(translation *PlantTranslation) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	plant, ok := ms.plants[translation.PlantID]
	if !ok {
		return ErrNotFound
	}

	for i := range plant.Translations {
		if plant.Translations[i].Language == translation.Language {
			translation.ID = plant.Translations[i].ID
			plant.Translations[i] = *translation
			ms.plants[plant.ID] = plant
			return nil
		}
	}

	translation.ID = ms.allocID("translation")
	plant.Translations = append(plant.Translations, *translation)
	ms.plants[plant.ID] = plant
	return nil
}

func (ms *MemoryStore) GetPlantTranslations(plantID uint) ([]PlantTranslation, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	plant, ok := ms.plants[plantID]
	if !ok {
		return nil, ErrNotFound
	}

	translations := make([]PlantTranslation, len(plant.Translations))
	copy(translations, plant.Translations)
	sort.Slice(translations, func(i, j int) bool {
		return translations[i].Language < translations[j].Language
	})
	return translations, nil
}

// --- contributions ---

func (ms *MemoryStore) CreateContribution(contribution *Contribution) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	contribution.ID = ms.allocID("contribution")
	contribution.CreatedAt = time.Now()
	contribution.UpdatedAt = contribution.CreatedAt
	if contribution.Status == "" {
		contribution.Status = ContributionPending
	}
	ms.contributions[contribution.ID] = *contribution
	return nil
}

func (ms *MemoryStore) GetContribution(id string) (Contribution, error) {
	contributionID, err := parseID(id)
	if err != nil {
		return Contribution{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	contribution, ok := ms.contributions[contributionID]
	if !ok {
		return Contribution{}, ErrNotFound
	}
	return contribution, nil
}

func (ms *MemoryStore) GetContributionsByStatus(status string) ([]Contribution, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var contributions []Contribution
	for _, contribution := range ms.contributions {
		if contribution.Status == status {
			contributions = append(contributions, contribution)
		}
	}
	sortContributionsNewestFirst(contributions)
	return contributions, nil
}

func (ms *MemoryStore) GetContributionsForPlant(plantID uint) ([]Contribution, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var contributions []Contribution
	for _, contribution := range ms.contributions {
		if contribution.PlantID == plantID {
			contributions = append(contributions, contribution)
		}
	}
	sortContributionsNewestFirst(contributions)
	return contributions, nil
}

func (ms *MemoryStore) UpdateContributionStatus(id, status string) (Contribution, error) {
	contributionID, err := parseID(id)
	if err != nil {
		return Contribution{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	contribution, ok := ms.contributions[contributionID]
	if !ok {
		return Contribution{}, ErrNotFound
	}
	if contribution.Status != status {
		if !contributionTransitionValid(contribution.Status, status) {
			return Contribution{}, ErrInvalidTransition
		}
		contribution.Status = status
		contribution.UpdatedAt = time.Now()
		ms.contributions[contributionID] = contribution
	}
	return contribution, nil
}

// --- images ---

func (ms *MemoryStore) CreatePlantImage(image *PlantImage) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	image.ID = ms.allocID("image")
	image.CreatedAt = time.Now()
	ms.images[image.ID] = *image
	return nil
}

func (ms *MemoryStore) GetPlantImage(id string) (PlantImage, error) {
	imageID, err := parseID(id)
	if err != nil {
		return PlantImage{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	image, ok := ms.images[imageID]
	if !ok {
		return PlantImage{}, ErrNotFound
	}
	return image, nil
}

func (ms *MemoryStore) GetPlantImages(plantID uint) ([]PlantImage, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var images []PlantImage
	for _, image := range ms.images {
		if image.PlantID == plantID {
			images = append(images, image)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		if images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].ID > images[j].ID
		}
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
	return images, nil
}

func (ms *MemoryStore) LikePlantImage(id string) (PlantImage, error) {
	imageID, err := parseID(id)
	if err != nil {
		return PlantImage{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	image, ok := ms.images[imageID]
	if !ok {
		return PlantImage{}, ErrNotFound
	}
	image.Likes++
	ms.images[imageID] = image
	return image, nil
}

// --- identifications ---

func (ms *MemoryStore) CreateIdentification(ident *Identification, candidates []IdentificationCandidate) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.createIdentificationLocked(ident, candidates)
	return nil
}

func (ms *MemoryStore) createIdentificationLocked(ident *Identification, candidates []IdentificationCandidate) {
	ident.ID = ms.allocID("identification")
	ident.CreatedAt = time.Now()
	ident.Candidates = nil
	for i := range candidates {
		candidates[i].ID = ms.allocID("candidate")
		candidates[i].IdentificationID = ident.ID
		ident.Candidates = append(ident.Candidates, candidates[i])
	}
	ms.identifications[ident.ID] = *ident
}

// CreateIdentificationWithPlant creates both records under one lock scope so
// no reader observes the identification without its plant.
func (ms *MemoryStore) CreateIdentificationWithPlant(ident *Identification, plant *Plant, candidates []IdentificationCandidate) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.createPlantLocked(plant)
	ident.PlantID = &plant.ID
	ms.createIdentificationLocked(ident, candidates)
	return nil
}

func (ms *MemoryStore) GetIdentification(id string) (Identification, error) {
	identID, err := parseID(id)
	if err != nil {
		return Identification{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ident, ok := ms.identifications[identID]
	if !ok {
		return Identification{}, ErrNotFound
	}
	return copyIdentification(ident), nil
}

func (ms *MemoryStore) GetUnknownIdentifications(limit, offset int) ([]Identification, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var idents []Identification
	for _, ident := range ms.identifications {
		if ident.IsUnknown {
			idents = append(idents, copyIdentification(ident))
		}
	}
	sort.Slice(idents, func(i, j int) bool {
		if idents[i].CreatedAt.Equal(idents[j].CreatedAt) {
			return idents[i].ID > idents[j].ID
		}
		return idents[i].CreatedAt.After(idents[j].CreatedAt)
	})
	return paginate(idents, limit, offset), nil
}

// --- discussions ---

func (ms *MemoryStore) CreateDiscussion(discussion *Discussion) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	discussion.ID = ms.allocID("discussion")
	discussion.CreatedAt = time.Now()
	discussion.UpdatedAt = discussion.CreatedAt
	ms.discussions[discussion.ID] = *discussion
	return nil
}

func (ms *MemoryStore) GetDiscussionsForIdentification(identificationID uint) ([]Discussion, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var discussions []Discussion
	for _, discussion := range ms.discussions {
		if discussion.IdentificationID == identificationID {
			discussions = append(discussions, discussion)
		}
	}
	sort.Slice(discussions, func(i, j int) bool {
		if discussions[i].CreatedAt.Equal(discussions[j].CreatedAt) {
			return discussions[i].ID > discussions[j].ID
		}
		return discussions[i].CreatedAt.After(discussions[j].CreatedAt)
	})
	return discussions, nil
}

func (ms *MemoryStore) ResolveDiscussion(id string) (Discussion, error) {
	discussionID, err := parseID(id)
	if err != nil {
		return Discussion{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	discussion, ok := ms.discussions[discussionID]
	if !ok {
		return Discussion{}, ErrNotFound
	}
	if !discussion.Resolved {
		discussion.Resolved = true
		discussion.UpdatedAt = time.Now()
		ms.discussions[discussionID] = discussion
	}
	return discussion, nil
}

// --- voice recordings ---

func (ms *MemoryStore) CreateVoiceRecording(recording *VoiceRecording) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	recording.ID = ms.allocID("recording")
	recording.CreatedAt = time.Now()
	ms.recordings[recording.ID] = *recording
	return nil
}

func (ms *MemoryStore) GetVoiceRecording(id string) (VoiceRecording, error) {
	recordingID, err := parseID(id)
	if err != nil {
		return VoiceRecording{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	recording, ok := ms.recordings[recordingID]
	if !ok {
		return VoiceRecording{}, ErrNotFound
	}
	return recording, nil
}

func (ms *MemoryStore) GetRecordingsForContribution(contributionID uint) ([]VoiceRecording, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var recordings []VoiceRecording
	for _, recording := range ms.recordings {
		if recording.ContributionID == contributionID {
			recordings = append(recordings, recording)
		}
	}
	sort.Slice(recordings, func(i, j int) bool {
		if recordings[i].CreatedAt.Equal(recordings[j].CreatedAt) {
			return recordings[i].ID > recordings[j].ID
		}
		return recordings[i].CreatedAt.After(recordings[j].CreatedAt)
	})
	return recordings, nil
}

// --- notifications ---

func (ms *MemoryStore) CreateNotification(notification *Notification) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	notification.ID = ms.allocID("notification")
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt
	if notification.Status == "" {
		notification.Status = NotificationPending
	}
	ms.notifications[notification.ID] = *notification
	return nil
}

func (ms *MemoryStore) GetNotification(id string) (Notification, error) {
	notificationID, err := parseID(id)
	if err != nil {
		return Notification{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	notification, ok := ms.notifications[notificationID]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return notification, nil
}

func (ms *MemoryStore) GetNotifications(limit, offset int) ([]Notification, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	notifications := make([]Notification, 0, len(ms.notifications))
	for _, notification := range ms.notifications {
		notifications = append(notifications, notification)
	}
	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].ID > notifications[j].ID
		}
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return paginate(notifications, limit, offset), nil
}

func (ms *MemoryStore) UpdateNotificationStatus(id, status string) (Notification, error) {
	notificationID, err := parseID(id)
	if err != nil {
		return Notification{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	notification, ok := ms.notifications[notificationID]
	if !ok {
		return Notification{}, ErrNotFound
	}
	if notification.Status != status {
		if !notificationTransitionValid(notification.Status, status) {
			return Notification{}, ErrInvalidTransition
		}
		notification.Status = status
		notification.UpdatedAt = time.Now()
		ms.notifications[notificationID] = notification
	}
	return notification, nil
}

// --- helpers ---

// copyUser deep-copies the badge slice so callers cannot mutate stored state.
func copyUser(user User) User {
	badges := make([]UserBadge, len(user.Badges))
	copy(badges, user.Badges)
	user.Badges = badges
	return user
}

func copyPlant(plant Plant) Plant {
	translations := make([]PlantTranslation, len(plant.Translations))
	copy(translations, plant.Translations)
	plant.Translations = translations
	return plant
}

func copyIdentification(ident Identification) Identification {
	candidates := make([]IdentificationCandidate, len(ident.Candidates))
	copy(candidates, ident.Candidates)
	ident.Candidates = candidates
	return ident
}

func sortPlantsNewestFirst(plants []Plant) {
	sort.Slice(plants, func(i, j int) bool {
		if plants[i].CreatedAt.Equal(plants[j].CreatedAt) {
			return plants[i].ID > plants[j].ID
		}
		return plants[i].CreatedAt.After(plants[j].CreatedAt)
	})
}

func sortContributionsNewestFirst(contributions []Contribution) {
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].CreatedAt.Equal(contributions[j].CreatedAt) {
			return contributions[i].ID > contributions[j].ID
		}
		return contributions[i].CreatedAt.After(contributions[j].CreatedAt)
	})
}

// paginate applies limit/offset to an already sorted slice. A limit of zero
// or less means no limit.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
