package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tkoeppen/giftlist-api/internal/models"
	"github.com/tkoeppen/giftlist-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// GiftServiceTestSuite covers the claim state machine and list
// reconciliation against an in-memory database.
type GiftServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	giftRepo repository.GiftRepository
	listRepo repository.ListRepository
	service  *GiftService
}

// SetupTest runs before each test
func (suite *GiftServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.List{},
		&models.ListMember{},
		&models.Gift{},
		&models.ListGift{},
	)
	suite.Require().NoError(err)

	suite.giftRepo = repository.NewGiftRepository(suite.db)
	suite.listRepo = repository.NewListRepository(suite.db)
	suite.service = NewGiftService(suite.giftRepo, suite.listRepo)
}

// TearDownTest runs after each test
func (suite *GiftServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helpers to create test data

func (suite *GiftServiceTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		UUID:       uuid.NewString(),
		Email:      email,
		Name:       email,
		LoginToken: uuid.NewString(),
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *GiftServiceTestSuite) createTestList(name string, owner *models.User) *models.List {
	list := &models.List{
		UUID:      uuid.NewString(),
		Name:      name,
		OwnerUUID: owner.UUID,
	}
	suite.Require().NoError(suite.listRepo.CreateWithOwner(list))
	return list
}

func (suite *GiftServiceTestSuite) addTestMember(list *models.List, user *models.User) {
	member := &models.ListMember{
		ListUUID: list.UUID,
		UserUUID: user.UUID,
		JoinedAt: time.Now(),
	}
	suite.Require().NoError(suite.listRepo.AddMember(member))
}

func (suite *GiftServiceTestSuite) createTestGift(list *models.List, owner *models.User, url string) *models.Gift {
	gift := &models.Gift{
		UUID:      uuid.NewString(),
		OwnerUUID: owner.UUID,
		URL:       url,
		Comment:   "a comment",
	}
	suite.Require().NoError(suite.giftRepo.Create(gift, list.UUID))
	return gift
}

// checkClaimInvariant asserts claimed=false implies no claimer and vice
// versa for the stored row.
func (suite *GiftServiceTestSuite) checkClaimInvariant(giftUUID string) *models.Gift {
	gift, err := suite.service.GetGift(giftUUID)
	suite.Require().NoError(err)
	if gift.Claimed {
		suite.Require().NotNil(gift.ClaimedByUUID)
	} else {
		suite.Require().Nil(gift.ClaimedByUUID)
	}
	return gift
}

// Claim engine

func (suite *GiftServiceTestSuite) TestClaim_Success() {
	owner := suite.createTestUser("owner@example.com")
	claimer := suite.createTestUser("claimer@example.com")
	list := suite.createTestList("Birthday", owner)
	suite.addTestMember(list, claimer)
	gift := suite.createTestGift(list, owner, "http://x")

	err := suite.service.Claim(gift.UUID, claimer.UUID)
	assert.NoError(suite.T(), err)

	stored := suite.checkClaimInvariant(gift.UUID)
	assert.True(suite.T(), stored.Claimed)
	assert.Equal(suite.T(), claimer.UUID, *stored.ClaimedByUUID)
}

func (suite *GiftServiceTestSuite) TestClaim_SelfClaimForbidden() {
	owner := suite.createTestUser("owner@example.com")
	list := suite.createTestList("Birthday", owner)
	gift := suite.createTestGift(list, owner, "http://x")

	err := suite.service.Claim(gift.UUID, owner.UUID)
	assert.ErrorIs(suite.T(), err, ErrSelfClaim)

	stored := suite.checkClaimInvariant(gift.UUID)
	assert.False(suite.T(), stored.Claimed)
}

func (suite *GiftServiceTestSuite) TestClaim_AlreadyClaimed() {
	owner := suite.createTestUser("owner@example.com")
	first := suite.createTestUser("first@example.com")
	second := suite.createTestUser("second@example.com")
	list := suite.createTestList("Birthday", owner)
	gift := suite.createTestGift(list, owner, "http://x")

	suite.Require().NoError(suite.service.Claim(gift.UUID, first.UUID))

	err := suite.service.Claim(gift.UUID, second.UUID)
	assert.ErrorIs(suite.T(), err, ErrAlreadyClaimed)

	var conflict *ClaimConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Require().NotNil(conflict.ClaimedBy)
	assert.Equal(suite.T(), first.UUID, conflict.ClaimedBy.UUID)

	// The first claim stands
	stored := suite.checkClaimInvariant(gift.UUID)
	assert.Equal(suite.T(), first.UUID, *stored.ClaimedByUUID)
}

func (suite *GiftServiceTestSuite) TestClaim_GiftNotFound() {
	user := suite.createTestUser("user@example.com")

	err := suite.service.Claim(uuid.NewString(), user.UUID)
	assert.ErrorIs(suite.T(), err, ErrGiftNotFound)
}

func (suite *GiftServiceTestSuite) TestUnclaim_RoundTripRestoresState() {
	owner := suite.createTestUser("owner@example.com")
	claimer := suite.createTestUser("claimer@example.com")
	list := suite.createTestList("Birthday", owner)
	gift := suite.createTestGift(list, owner, "http://x")

	before := suite.checkClaimInvariant(gift.UUID)

	suite.Require().NoError(suite.service.Claim(gift.UUID, claimer.UUID))
	suite.Require().NoError(suite.service.Unclaim(gift.UUID, claimer.UUID))

	after := suite.checkClaimInvariant(gift.UUID)
	assert.Equal(suite.T(), before.Claimed, after.Claimed)
	assert.Equal(suite.T(), before.ClaimedByUUID, after.ClaimedByUUID)
	assert.Equal(suite.T(), before.URL, after.URL)
	assert.Equal(suite.T(), before.Comment, after.Comment)
}

func (suite *GiftServiceTestSuite) TestUnclaim_SelfClaimForbidden() {
	owner := suite.createTestUser("owner@example.com")
	list := suite.createTestList("Birthday", owner)
	gift := suite.createTestGift(list, owner, "http://x")

	err := suite.service.Unclaim(gift.UUID, owner.UUID)
	assert.ErrorIs(suite.T(), err, ErrSelfClaim)
}

func (suite *GiftServiceTestSuite) TestUnclaim_NotClaimed() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	list := suite.createTestList("Birthday", owner)
	gift := suite.createTestGift(list, owner, "http://x")

	err := suite.service.Unclaim(gift.UUID, member.UUID)
	assert.ErrorIs(suite.T(), err, ErrNotClaimed)
}

func (suite *GiftServiceTestSuite) TestUnclaim_ClaimedByOther() {
	owner := suite.createTestUser("owner@example.com")
	claimer := suite.createTestUser("claimer@example.com")
	other := suite.createTestUser("other@example.com")
	list := suite.createTestList("Birthday", owner)
	gift := suite.createTestGift(list, owner, "http://x")

	suite.Require().NoError(suite.service.Claim(gift.UUID, claimer.UUID))

	err := suite.service.Unclaim(gift.UUID, other.UUID)
	assert.ErrorIs(suite.T(), err, ErrClaimedByOther)

	var conflict *ClaimConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Require().NotNil(conflict.ClaimedBy)
	assert.Equal(suite.T(), claimer.UUID, conflict.ClaimedBy.UUID)

	stored := suite.checkClaimInvariant(gift.UUID)
	assert.True(suite.T(), stored.Claimed)
	assert.Equal(suite.T(), claimer.UUID, *stored.ClaimedByUUID)
}

// Reconciliation engine

func (suite *GiftServiceTestSuite) TestReconcile_NotListMember() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	list := suite.createTestList("Birthday", owner)

	err := suite.service.Reconcile(list.UUID, outsider.UUID, []SubmittedGift{
		{ID: "", URL: "http://x", Comment: "socks"},
	})
	assert.ErrorIs(suite.T(), err, ErrNotListMember)

	gifts, err := suite.service.GiftsForOwner(list.UUID, outsider.UUID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), gifts)
}

func (suite *GiftServiceTestSuite) TestReconcile_CreatesNewGifts() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	list := suite.createTestList("Birthday", owner)
	suite.addTestMember(list, member)

	err := suite.service.Reconcile(list.UUID, member.UUID, []SubmittedGift{
		{ID: "", URL: "http://x", Comment: "socks"},
		{ID: "", URL: "http://y", Comment: "scarf"},
	})
	suite.Require().NoError(err)

	gifts, err := suite.service.GiftsForOwner(list.UUID, member.UUID)
	suite.Require().NoError(err)
	suite.Require().Len(gifts, 2)

	for _, gift := range gifts {
		assert.Equal(suite.T(), member.UUID, gift.OwnerUUID)
		assert.False(suite.T(), gift.Claimed)
		assert.Nil(suite.T(), gift.ClaimedByUUID)
		assert.NotEmpty(suite.T(), gift.UUID)
	}
	assert.Equal(suite.T(), "http://x", gifts[0].URL)
	assert.Equal(suite.T(), "socks", gifts[0].Comment)
}

func (suite *GiftServiceTestSuite) TestReconcile_ForwardPlaceholderReference() {
	owner := suite.createTestUser("owner@example.com")
	list := suite.createTestList("Birthday", owner)

	// A's alternate points at B, which only exists later in the batch.
	err := suite.service.Reconcile(list.UUID, owner.UUID, []SubmittedGift{
		{ID: "", URL: "http://a", Comment: "A", AlternateTo: "newRow-1"},
		{ID: "newRow-1", URL: "http://b", Comment: "B"},
	})
	suite.Require().NoError(err)

	gifts, err := suite.service.GiftsForOwner(list.UUID, owner.UUID)
	suite.Require().NoError(err)
	suite.Require().Len(gifts, 2)

	var a, b *models.Gift
	for i := range gifts {
		switch gifts[i].Comment {
		case "A":
			a = &gifts[i]
		case "B":
			b = &gifts[i]
		}
	}
	suite.Require().NotNil(a)
	suite.Require().NotNil(b)
	suite.Require().NotNil(a.AlternateToUUID)
	assert.Equal(suite.T(), b.UUID, *a.AlternateToUUID)
}

func (suite *GiftServiceTestSuite) TestReconcile_DeletesMissingGifts() {
	owner := suite.createTestUser("owner@example.com")
	list := suite.createTestList("Birthday", owner)
	keep := suite.createTestGift(list, owner, "http://keep")
	drop := suite.createTestGift(list, owner, "http://drop")

	err := suite.service.Reconcile(list.UUID, owner.UUID, []SubmittedGift{
		{ID: keep.UUID, URL: keep.URL, Comment: keep.Comment},
	})
	suite.Require().NoError(err)

	gifts, err := suite.service.GiftsForOwner(list.UUID, owner.UUID)
	suite.Require().NoError(err)
	suite.Require().Len(gifts, 1)
	assert.Equal(suite.T(), keep.UUID, gifts[0].UUID)

	_, err = suite.service.GetGift(drop.UUID)
	assert.ErrorIs(suite.T(), err, ErrGiftNotFound)
}

func (suite *GiftServiceTestSuite) TestReconcile_UpdatesPreserveClaimState() {
	owner := suite.createTestUser("owner@example.com")
	claimer := suite.createTestUser("claimer@example.com")
	list := suite.createTestList("Birthday", owner)
	gift := suite.createTestGift(list, owner, "http://old")

	suite.Require().NoError(suite.service.Claim(gift.UUID, claimer.UUID))

	err := suite.service.Reconcile(list.UUID, owner.UUID, []SubmittedGift{
		{ID: gift.UUID, URL: "http://new", Comment: "updated"},
	})
	suite.Require().NoError(err)

	stored := suite.checkClaimInvariant(gift.UUID)
	assert.Equal(suite.T(), "http://new", stored.URL)
	assert.Equal(suite.T(), "updated", stored.Comment)
	assert.True(suite.T(), stored.Claimed)
	assert.Equal(suite.T(), claimer.UUID, *stored.ClaimedByUUID)
}

func (suite *GiftServiceTestSuite) TestReconcile_Idempotent() {
	owner := suite.createTestUser("owner@example.com")
	list := suite.createTestList("Birthday", owner)
	g1 := suite.createTestGift(list, owner, "http://one")
	g2 := suite.createTestGift(list, owner, "http://two")

	before, err := suite.service.GiftsForOwner(list.UUID, owner.UUID)
	suite.Require().NoError(err)

	err = suite.service.Reconcile(list.UUID, owner.UUID, []SubmittedGift{
		{ID: g1.UUID, URL: g1.URL, Comment: g1.Comment},
		{ID: g2.UUID, URL: g2.URL, Comment: g2.Comment},
	})
	suite.Require().NoError(err)

	after, err := suite.service.GiftsForOwner(list.UUID, owner.UUID)
	suite.Require().NoError(err)
	suite.Require().Len(after, len(before))

	for i := range before {
		assert.Equal(suite.T(), before[i].UUID, after[i].UUID)
		// No row was rewritten
		assert.True(suite.T(), before[i].UpdatedAt.Equal(after[i].UpdatedAt))
	}
}

func (suite *GiftServiceTestSuite) TestReconcile_ForbiddenGiftRollsBackBatch() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	list := suite.createTestList("Birthday", owner)
	suite.addTestMember(list, member)
	ownersGift := suite.createTestGift(list, owner, "http://not-yours")

	err := suite.service.Reconcile(list.UUID, member.UUID, []SubmittedGift{
		{ID: "", URL: "http://mine", Comment: "new"},
		{ID: ownersGift.UUID, URL: "http://hijack", Comment: "nope"},
	})
	assert.ErrorIs(suite.T(), err, ErrNotGiftOwner)

	// The whole submission rolled back, including the earlier create
	gifts, err := suite.service.GiftsForOwner(list.UUID, member.UUID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), gifts)

	stored, err := suite.service.GetGift(ownersGift.UUID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "http://not-yours", stored.URL)
}

func (suite *GiftServiceTestSuite) TestReconcile_UnknownPlaceholderAlternate() {
	owner := suite.createTestUser("owner@example.com")
	list := suite.createTestList("Birthday", owner)

	err := suite.service.Reconcile(list.UUID, owner.UUID, []SubmittedGift{
		{ID: "", URL: "http://a", Comment: "A", AlternateTo: "newRow-missing"},
	})
	assert.ErrorIs(suite.T(), err, ErrUnknownPlaceholder)

	gifts, err := suite.service.GiftsForOwner(list.UUID, owner.UUID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), gifts)
}

func (suite *GiftServiceTestSuite) TestReconcile_AlternateMustBelongToOwner() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	list := suite.createTestList("Birthday", owner)
	suite.addTestMember(list, member)
	ownersGift := suite.createTestGift(list, owner, "http://owners")

	err := suite.service.Reconcile(list.UUID, member.UUID, []SubmittedGift{
		{ID: "", URL: "http://a", Comment: "A", AlternateTo: ownersGift.UUID},
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidAlternate)

	err = suite.service.Reconcile(list.UUID, member.UUID, []SubmittedGift{
		{ID: "", URL: "http://a", Comment: "A", AlternateTo: uuid.NewString()},
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidAlternate)
}

func (suite *GiftServiceTestSuite) TestReconcile_AlternateToExistingOwnGift() {
	owner := suite.createTestUser("owner@example.com")
	list := suite.createTestList("Birthday", owner)
	existing := suite.createTestGift(list, owner, "http://existing")

	err := suite.service.Reconcile(list.UUID, owner.UUID, []SubmittedGift{
		{ID: existing.UUID, URL: existing.URL, Comment: existing.Comment},
		{ID: "", URL: "http://alt", Comment: "alt", AlternateTo: existing.UUID},
	})
	suite.Require().NoError(err)

	gifts, err := suite.service.GiftsForOwner(list.UUID, owner.UUID)
	suite.Require().NoError(err)
	suite.Require().Len(gifts, 2)
	suite.Require().NotNil(gifts[1].AlternateToUUID)
	assert.Equal(suite.T(), existing.UUID, *gifts[1].AlternateToUUID)
}

// Full walkthrough: list with several members exercising the whole
// claim lifecycle.
func (suite *GiftServiceTestSuite) TestScenario_BirthdayList() {
	u1 := suite.createTestUser("u1@example.com")
	u2 := suite.createTestUser("u2@example.com")
	u3 := suite.createTestUser("u3@example.com")
	u4 := suite.createTestUser("u4@example.com")

	list := suite.createTestList("Birthday", u1)
	suite.addTestMember(list, u2)
	suite.addTestMember(list, u3)
	suite.addTestMember(list, u4)

	// U2 submits their list
	err := suite.service.Reconcile(list.UUID, u2.UUID, []SubmittedGift{
		{ID: "", URL: "http://x", Comment: "socks"},
	})
	suite.Require().NoError(err)

	gifts, err := suite.service.GiftsForOwner(list.UUID, u2.UUID)
	suite.Require().NoError(err)
	suite.Require().Len(gifts, 1)
	giftUUID := gifts[0].UUID
	assert.Equal(suite.T(), u2.UUID, gifts[0].OwnerUUID)
	assert.False(suite.T(), gifts[0].Claimed)

	// U3 claims it
	suite.Require().NoError(suite.service.Claim(giftUUID, u3.UUID))
	stored := suite.checkClaimInvariant(giftUUID)
	assert.Equal(suite.T(), u3.UUID, *stored.ClaimedByUUID)

	// U2 cannot claim their own gift
	assert.ErrorIs(suite.T(), suite.service.Claim(giftUUID, u2.UUID), ErrSelfClaim)

	// U3 releases it
	suite.Require().NoError(suite.service.Unclaim(giftUUID, u3.UUID))
	stored = suite.checkClaimInvariant(giftUUID)
	assert.False(suite.T(), stored.Claimed)

	// U4 cannot unclaim an unclaimed gift
	assert.ErrorIs(suite.T(), suite.service.Unclaim(giftUUID, u4.UUID), ErrNotClaimed)
}

func TestGiftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GiftServiceTestSuite))
}
