package datastore

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/conf"
)

// testStores returns one store per implementation so every property is
// checked against both the GORM-backed store and the in-memory store.
func testStores(t *testing.T) map[string]Interface {
	t.Helper()

	sqlite := &SQLiteStore{
		Settings: &conf.Settings{
			Output: conf.OutputSettings{
				SQLite: conf.SQLiteSettings{
					Enabled: true,
					Path:    filepath.Join(t.TempDir(), "test.db"),
				},
			},
		},
	}
	require.NoError(t, sqlite.Open())
	t.Cleanup(func() { _ = sqlite.Close() })

	memory := NewMemoryStore()

	return map[string]Interface{
		"sqlite": sqlite,
		"memory": memory,
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, store Interface)) {
	t.Helper()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, store)
		})
	}
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestPlantCreateGetRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		plant := &Plant{
			Name:           "Tulsi",
			ScientificName: "Ocimum tenuiflorum",
			HindiName:      "तुलसी",
			Uses:           "Respiratory ailments and stress relief.",
			Translations: []PlantTranslation{
				{Language: "hi", Name: "तुलसी"},
			},
		}
		require.NoError(t, store.CreatePlant(plant))
		require.NotZero(t, plant.ID)

		got, err := store.GetPlant(idString(plant.ID))
		require.NoError(t, err)
		assert.Equal(t, "Tulsi", got.Name)
		assert.Equal(t, "Ocimum tenuiflorum", got.ScientificName)
		assert.Equal(t, PlantPending, got.VerificationStatus)
		require.Len(t, got.Translations, 1)
		assert.Equal(t, "hi", got.Translations[0].Language)
	})
}

func TestGetPlantNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		_, err := store.GetPlant("9999")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetAllPlantsReturnsVerifiedOnly(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		verified := &Plant{Name: "Neem", VerificationStatus: PlantVerified}
		pending := &Plant{Name: "Brahmi"}
		rejected := &Plant{Name: "Unknown weed", VerificationStatus: PlantRejected}
		require.NoError(t, store.CreatePlant(verified))
		require.NoError(t, store.CreatePlant(pending))
		require.NoError(t, store.CreatePlant(rejected))

		plants, err := store.GetAllPlants()
		require.NoError(t, err)
		require.Len(t, plants, 1)
		assert.Equal(t, "Neem", plants[0].Name)
	})
}

func TestSearchPlantsShortQueryReturnsEmpty(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		require.NoError(t, store.CreatePlant(&Plant{Name: "Turmeric"}))

		for _, query := range []string{"", "t", "  t  "} {
			plants, err := store.SearchPlants(query, 10, 0)
			require.NoError(t, err)
			assert.Empty(t, plants, "query %q", query)
		}
	})
}

func TestSearchPlantsMatchesAcrossFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		require.NoError(t, store.CreatePlant(&Plant{
			Name:           "Ashwagandha",
			ScientificName: "Withania somnifera",
			HindiName:      "अश्वगंधा",
			Uses:           "Stress and fatigue.",
			Description:    "Woody shrub of dry regions.",
		}))
		require.NoError(t, store.CreatePlant(&Plant{Name: "Mint"}))

		cases := map[string]string{
			"name":        "ashwa",
			"sciname":     "somnifera",
			"hindi":       "अश्वगंधा",
			"uses":        "fatigue",
			"description": "woody shrub",
		}
		for field, query := range cases {
			plants, err := store.SearchPlants(query, 10, 0)
			require.NoError(t, err, field)
			require.Len(t, plants, 1, field)
			assert.Equal(t, "Ashwagandha", plants[0].Name, field)
		}
	})
}

func TestSearchPlantsPagination(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		for _, name := range []string{"Giloy one", "Giloy two", "Giloy three"} {
			require.NoError(t, store.CreatePlant(&Plant{Name: name}))
		}

		page, err := store.SearchPlants("giloy", 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := store.SearchPlants("giloy", 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 1)

		past, err := store.SearchPlants("giloy", 2, 10)
		require.NoError(t, err)
		assert.Empty(t, past)
	})
}

func TestPlantStatusTransitions(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		plant := &Plant{Name: "Amla"}
		require.NoError(t, store.CreatePlant(plant))

		updated, err := store.UpdatePlantStatus(idString(plant.ID), PlantVerified)
		require.NoError(t, err)
		assert.Equal(t, PlantVerified, updated.VerificationStatus)

		// Verified is terminal.
		_, err = store.UpdatePlantStatus(idString(plant.ID), PlantRejected)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = store.UpdatePlantStatus(idString(plant.ID), PlantPending)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// Setting the current status again is a no-op, not an error.
		same, err := store.UpdatePlantStatus(idString(plant.ID), PlantVerified)
		require.NoError(t, err)
		assert.Equal(t, PlantVerified, same.VerificationStatus)

		_, err = store.UpdatePlantStatus(idString(plant.ID), "bogus")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestUpsertPlantTranslation(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		plant := &Plant{Name: "Fenugreek"}
		require.NoError(t, store.CreatePlant(plant))

		first := &PlantTranslation{PlantID: plant.ID, Language: "ta", Name: "வெந்தயம்"}
		require.NoError(t, store.UpsertPlantTranslation(first))

		second := &PlantTranslation{PlantID: plant.ID, Language: "ta", Name: "வெந்தயம்", Uses: "சமையல் மற்றும் மருத்துவம்"}
		require.NoError(t, store.UpsertPlantTranslation(second))

		other := &PlantTranslation{PlantID: plant.ID, Language: "bn", Name: "মেথি"}
		require.NoError(t, store.UpsertPlantTranslation(other))

		translations, err := store.GetPlantTranslations(plant.ID)
		require.NoError(t, err)
		require.Len(t, translations, 2)
		assert.Equal(t, "bn", translations[0].Language)
		assert.Equal(t, "ta", translations[1].Language)
		assert.Equal(t, "சமையல் மற்றும் மருத்துவம்", translations[1].Uses)
	})
}

func TestContributionModerationFlow(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		plant := &Plant{Name: "Tulsi"}
		require.NoError(t, store.CreatePlant(plant))

		contribution := &Contribution{
			PlantID:         plant.ID,
			ContributorName: "Vaidya Meena",
			Content:         "Tulsi tea for seasonal coughs.",
			Language:        "en",
		}
		require.NoError(t, store.CreateContribution(contribution))
		assert.Equal(t, ContributionPending, contribution.Status)

		pending, err := store.GetContributionsByStatus(ContributionPending)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		approved, err := store.UpdateContributionStatus(idString(contribution.ID), ContributionApproved)
		require.NoError(t, err)
		assert.Equal(t, ContributionApproved, approved.Status)

		pending, err = store.GetContributionsByStatus(ContributionPending)
		require.NoError(t, err)
		assert.Empty(t, pending)

		// Approved is terminal.
		_, err = store.UpdateContributionStatus(idString(contribution.ID), ContributionRejected)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		forPlant, err := store.GetContributionsForPlant(plant.ID)
		require.NoError(t, err)
		require.Len(t, forPlant, 1)
		assert.Equal(t, ContributionApproved, forPlant[0].Status)
	})
}

func TestUserBadgeAwardIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		user := &User{Username: "ayush_sharma"}
		require.NoError(t, store.CreateUser(user))

		for i := 0; i < 3; i++ {
			_, err := store.AddUserBadge(user.ID, "First Contribution")
			require.NoError(t, err)
		}
		_, err := store.AddUserBadge(user.ID, "Active Contributor")
		require.NoError(t, err)

		badges, err := store.GetUserBadges(user.ID)
		require.NoError(t, err)
		require.Len(t, badges, 2)

		names := []string{badges[0].Name, badges[1].Name}
		assert.ElementsMatch(t, []string{"First Contribution", "Active Contributor"}, names)
	})
}

func TestIncrementContributionCount(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		user := &User{Username: "vaidya_meena"}
		require.NoError(t, store.CreateUser(user))

		var updated User
		var err error
		for i := 0; i < 5; i++ {
			updated, err = store.IncrementContributionCount(user.ID)
			require.NoError(t, err)
		}
		assert.Equal(t, 5, updated.ContributionCount)

		_, err = store.IncrementContributionCount(9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetUserByUsername(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		require.NoError(t, store.CreateUser(&User{Username: "admin", IsAdmin: true}))

		user, err := store.GetUserByUsername("admin")
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)

		_, err = store.GetUserByUsername("nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLikePlantImage(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		plant := &Plant{Name: "Neem"}
		require.NoError(t, store.CreatePlant(plant))

		image := &PlantImage{PlantID: plant.ID, URL: "/images/neem.jpg"}
		require.NoError(t, store.CreatePlantImage(image))

		liked, err := store.LikePlantImage(idString(image.ID))
		require.NoError(t, err)
		assert.Equal(t, 1, liked.Likes)

		liked, err = store.LikePlantImage(idString(image.ID))
		require.NoError(t, err)
		assert.Equal(t, 2, liked.Likes)
	})
}

func TestCreateIdentificationWithCandidates(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		ident := &Identification{
			ImageURL:   "/images/sample.jpg",
			Confidence: 35,
			IsUnknown:  true,
			Provider:   "vision",
		}
		candidates := []IdentificationCandidate{
			{Label: "Bacopa monnieri", Confidence: 35, Rank: 1},
			{Label: "Centella asiatica", Confidence: 22, Rank: 2},
		}
		require.NoError(t, store.CreateIdentification(ident, candidates))

		got, err := store.GetIdentification(idString(ident.ID))
		require.NoError(t, err)
		assert.True(t, got.IsUnknown)
		assert.Nil(t, got.PlantID)
		require.Len(t, got.Candidates, 2)
		assert.Equal(t, "Bacopa monnieri", got.Candidates[0].Label)

		unknown, err := store.GetUnknownIdentifications(10, 0)
		require.NoError(t, err)
		require.Len(t, unknown, 1)
		assert.Equal(t, ident.ID, unknown[0].ID)
	})
}

func TestCreateIdentificationWithPlant(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		ident := &Identification{
			ImageURL:       "/images/tulsi.jpg",
			ScientificName: "Ocimum tenuiflorum",
			Confidence:     91,
			Provider:       "vision",
		}
		plant := &Plant{Name: "Tulsi", ScientificName: "Ocimum tenuiflorum"}
		require.NoError(t, store.CreateIdentificationWithPlant(ident, plant, []IdentificationCandidate{
			{Label: "Ocimum tenuiflorum", Confidence: 91, Rank: 1},
		}))

		require.NotNil(t, ident.PlantID)
		assert.Equal(t, plant.ID, *ident.PlantID)

		// The new plant enters the moderation queue, not the public listing.
		created, err := store.GetPlant(idString(plant.ID))
		require.NoError(t, err)
		assert.Equal(t, PlantPending, created.VerificationStatus)

		listed, err := store.GetAllPlants()
		require.NoError(t, err)
		assert.Empty(t, listed)
	})
}

func TestDiscussionThread(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		ident := &Identification{ImageURL: "/images/x.jpg", IsUnknown: true}
		require.NoError(t, store.CreateIdentification(ident, nil))

		require.NoError(t, store.CreateDiscussion(&Discussion{
			IdentificationID: ident.ID, Author: "ayush_sharma", Role: "user",
			Content: "Found near a river bank, leaves in whorls.",
		}))
		require.NoError(t, store.CreateDiscussion(&Discussion{
			IdentificationID: ident.ID, Author: "vaidya_meena", Role: "expert",
			Content: "Looks like Brahmi to me.",
		}))

		thread, err := store.GetDiscussionsForIdentification(ident.ID)
		require.NoError(t, err)
		require.Len(t, thread, 2)

		resolved, err := store.ResolveDiscussion(idString(thread[0].ID))
		require.NoError(t, err)
		assert.True(t, resolved.Resolved)

		// Resolving twice stays resolved.
		resolved, err = store.ResolveDiscussion(idString(thread[0].ID))
		require.NoError(t, err)
		assert.True(t, resolved.Resolved)
	})
}

func TestVoiceRecordingsForContribution(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		contribution := &Contribution{PlantID: 1, Content: "spoken entry"}
		require.NoError(t, store.CreateContribution(contribution))

		recording := &VoiceRecording{
			ContributionID:  contribution.ID,
			AudioURL:        "/audio/entry.ogg",
			Transcript:      "नीम के पत्ते",
			Language:        "hi",
			DurationSeconds: 12.5,
		}
		require.NoError(t, store.CreateVoiceRecording(recording))

		got, err := store.GetVoiceRecording(idString(recording.ID))
		require.NoError(t, err)
		assert.Equal(t, "hi", got.Language)

		list, err := store.GetRecordingsForContribution(contribution.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}

func TestNotificationDeliveryStatuses(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		notification := &Notification{
			Recipient: "+919999999999",
			Channel:   ChannelSMS,
			Message:   "Your contribution was approved.",
		}
		require.NoError(t, store.CreateNotification(notification))
		assert.Equal(t, NotificationPending, notification.Status)

		sent, err := store.UpdateNotificationStatus(idString(notification.ID), NotificationSent)
		require.NoError(t, err)
		assert.Equal(t, NotificationSent, sent.Status)

		// Delivery callback may confirm a sent message.
		delivered, err := store.UpdateNotificationStatus(idString(notification.ID), NotificationDelivered)
		require.NoError(t, err)
		assert.Equal(t, NotificationDelivered, delivered.Status)

		// Delivered is terminal.
		_, err = store.UpdateNotificationStatus(idString(notification.ID), NotificationFailed)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestParseIDRejectsGarbage(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Interface) {
		_, err := store.GetPlant("not-a-number")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStoreSeedContent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Open())

	plants, err := store.GetAllPlants()
	require.NoError(t, err)
	assert.NotEmpty(t, plants)
	for _, plant := range plants {
		assert.Equal(t, PlantVerified, plant.VerificationStatus)
	}

	results, err := store.SearchPlants("tulsi", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ocimum tenuiflorum", results[0].ScientificName)

	unknown, err := store.GetUnknownIdentifications(10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, unknown)

	thread, err := store.GetDiscussionsForIdentification(unknown[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, thread)

	// Reopening reseeds rather than duplicating.
	require.NoError(t, store.Open())
	again, err := store.SearchPlants("tulsi", 10, 0)
	require.NoError(t, err)
	assert.Len(t, again, 1)
}
