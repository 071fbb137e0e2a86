package moderation

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

func newTestService(t *testing.T) (*Service, datastore.Interface) {
	t.Helper()
	ds := datastore.NewMemoryStore()
	return NewService(ds), ds
}

func createPendingContribution(t *testing.T, ds datastore.Interface, userID uint) *datastore.Contribution {
	t.Helper()
	plant := &datastore.Plant{Name: "Tulsi"}
	require.NoError(t, ds.CreatePlant(plant))
	contribution := &datastore.Contribution{
		PlantID: plant.ID,
		UserID:  userID,
		Content: "Tulsi tea for coughs.",
	}
	require.NoError(t, ds.CreateContribution(contribution))
	return contribution
}

func TestVerifyPlantAdmitsToPublicListing(t *testing.T) {
	svc, ds := newTestService(t)

	plant := &datastore.Plant{Name: "Brahmi"}
	require.NoError(t, ds.CreatePlant(plant))

	verified, err := svc.VerifyPlant(strconv.Itoa(int(plant.ID)))
	require.NoError(t, err)
	assert.Equal(t, datastore.PlantVerified, verified.VerificationStatus)

	listed, err := ds.GetAllPlants()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, plant.ID, listed[0].ID)
}

func TestRejectPlantIsTerminal(t *testing.T) {
	svc, ds := newTestService(t)

	plant := &datastore.Plant{Name: "Unknown weed"}
	require.NoError(t, ds.CreatePlant(plant))
	id := strconv.Itoa(int(plant.ID))

	_, err := svc.RejectPlant(id)
	require.NoError(t, err)

	_, err = svc.VerifyPlant(id)
	assert.ErrorIs(t, err, datastore.ErrInvalidTransition)
}

func TestApproveContributionCreditsContributor(t *testing.T) {
	svc, ds := newTestService(t)

	user := &datastore.User{Username: "ayush_sharma"}
	require.NoError(t, ds.CreateUser(user))
	contribution := createPendingContribution(t, ds, user.ID)

	approved, err := svc.ApproveContribution(strconv.Itoa(int(contribution.ID)))
	require.NoError(t, err)
	assert.Equal(t, datastore.ContributionApproved, approved.Status)

	updated, err := ds.GetUser(strconv.Itoa(int(user.ID)))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ContributionCount)

	badges, err := ds.GetUserBadges(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, BadgeFirstContribution, badges[0].Name)
}

func TestMilestoneBadgesAwardedOnce(t *testing.T) {
	svc, ds := newTestService(t)

	user := &datastore.User{Username: "vaidya_meena"}
	require.NoError(t, ds.CreateUser(user))

	for i := 0; i < 5; i++ {
		contribution := createPendingContribution(t, ds, user.ID)
		_, err := svc.ApproveContribution(strconv.Itoa(int(contribution.ID)))
		require.NoError(t, err)
	}

	updated, err := ds.GetUser(strconv.Itoa(int(user.ID)))
	require.NoError(t, err)
	assert.Equal(t, 5, updated.ContributionCount)

	badges, err := ds.GetUserBadges(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	names := []string{badges[0].Name, badges[1].Name}
	assert.ElementsMatch(t, []string{BadgeFirstContribution, BadgeActiveContributor}, names)
}

func TestKnowledgeKeeperAtTen(t *testing.T) {
	svc, ds := newTestService(t)

	user := &datastore.User{Username: "prolific"}
	require.NoError(t, ds.CreateUser(user))

	for i := 0; i < 10; i++ {
		contribution := createPendingContribution(t, ds, user.ID)
		_, err := svc.ApproveContribution(strconv.Itoa(int(contribution.ID)))
		require.NoError(t, err)
	}

	badges, err := ds.GetUserBadges(user.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 3)
}

func TestAnonymousContributionSkipsCredit(t *testing.T) {
	svc, ds := newTestService(t)

	contribution := createPendingContribution(t, ds, 0)

	approved, err := svc.ApproveContribution(strconv.Itoa(int(contribution.ID)))
	require.NoError(t, err)
	assert.Equal(t, datastore.ContributionApproved, approved.Status)
}

func TestRejectContributionLeavesCountersAlone(t *testing.T) {
	svc, ds := newTestService(t)

	user := &datastore.User{Username: "ayush_sharma"}
	require.NoError(t, ds.CreateUser(user))
	contribution := createPendingContribution(t, ds, user.ID)

	rejected, err := svc.RejectContribution(strconv.Itoa(int(contribution.ID)))
	require.NoError(t, err)
	assert.Equal(t, datastore.ContributionRejected, rejected.Status)

	updated, err := ds.GetUser(strconv.Itoa(int(user.ID)))
	require.NoError(t, err)
	assert.Zero(t, updated.ContributionCount)

	// Rejected is terminal.
	_, err = svc.ApproveContribution(strconv.Itoa(int(contribution.ID)))
	assert.ErrorIs(t, err, datastore.ErrInvalidTransition)
}
