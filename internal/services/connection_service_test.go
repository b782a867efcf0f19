package services

import (
	"context"
	"sync"
	"testing"

	"eventsupply_backend/internal/email"
	"eventsupply_backend/internal/models"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/services/dto"
	"eventsupply_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.ConnectionRequest{},
		&models.Notification{},
		&models.Liaison{},
		&models.Planner{},
	)
	require.NoError(t, err)

	return db
}

// recordingFeed captures every key published to, for asserting which actor
// channels got nudged.
type recordingFeed struct {
	mu   sync.Mutex
	keys []string
}

func (f *recordingFeed) Publish(key string, message any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
}

func (f *recordingFeed) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

type connectionFixture struct {
	db               *gorm.DB
	service          ConnectionService
	connectionRepo   repositories.ConnectionRepository
	notificationRepo repositories.NotificationRepository
	rosterRepo       repositories.RosterRepository
	feed             *recordingFeed
}

func newConnectionFixture(t *testing.T) *connectionFixture {
	t.Helper()

	db := setupTestDB(t)
	connectionRepo := repositories.NewConnectionRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	rosterRepo := repositories.NewRosterRepository(db)
	feed := &recordingFeed{}

	service := NewConnectionService(connectionRepo, notificationRepo, rosterRepo, email.NewNoopProvider(), feed)

	return &connectionFixture{
		db:               db,
		service:          service,
		connectionRepo:   connectionRepo,
		notificationRepo: notificationRepo,
		rosterRepo:       rosterRepo,
		feed:             feed,
	}
}

var (
	organizerParty = dto.ConnectionParty{
		ID:    "admin-1",
		Name:  "Acme Events",
		Email: "acme@events.test",
	}
	supplierParty = dto.ConnectionParty{
		ID:    "supplier-1",
		Name:  "Best Catering",
		Email: "best@catering.test",
	}
)

func TestSendConnectionRequest_CreatesPendingAndNotifiesSupplier(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	resp, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	assert.Equal(t, models.ConnectionStatusPending, resp.Status)
	assert.Equal(t, "Acme Events", resp.RequesterName)
	assert.Equal(t, "Best Catering", resp.SupplierName)
	assert.NotEmpty(t, resp.ID)

	// The supplier got a connection_request notification carrying the
	// request id and the requester identity in its payload.
	notifications, err := f.notificationRepo.FindForSupplier(supplierParty.Email, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	n := notifications[0]
	assert.Equal(t, repositories.NotificationTypeConnectionRequest, n.Type)
	assert.Equal(t, resp.ID, n.ConnectionRequestID)
	assert.Equal(t, models.NotificationStatusUnread, n.Status)
	assert.Contains(t, n.Content, "Acme Events")

	assert.Contains(t, f.feed.published(), "supplier:best@catering.test")
}

func TestSendConnectionRequest_DuplicatePendingRejected(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	_, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	_, err = f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
}

func TestSendConnectionRequest_AlreadyAcceptedRejected(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	first, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	_, err = f.service.AcceptConnectionRequest(ctx, first.ID, supplierParty)
	require.NoError(t, err)

	_, err = f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConnected)
}

func TestSendConnectionRequest_DeclinedPairMayRetry(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	first, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	_, err = f.service.DeclineConnectionRequest(ctx, first.ID, supplierParty)
	require.NoError(t, err)

	second, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.ConnectionStatusPending, second.Status)
}

func TestSendConnectionRequest_SelfConnectionRejected(t *testing.T) {
	f := newConnectionFixture(t)

	_, err := f.service.SendConnectionRequest(context.Background(), organizerParty, organizerParty)
	assert.Error(t, err)
}

func TestAcceptConnectionRequest_FullFlow(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	resp, err := f.service.AcceptConnectionRequest(ctx, sent.ID, supplierParty)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusAccepted, resp.Status)

	// Liaison row on the supplier side pointing at the organizer.
	liaisons, err := f.rosterRepo.ListLiaisons(supplierParty.ID)
	require.NoError(t, err)
	require.Len(t, liaisons, 1)
	assert.Equal(t, "Acme Events", liaisons[0].Name)
	assert.Equal(t, "acme@events.test", liaisons[0].Email)

	// Planner row on the organizer side pointing at the supplier.
	planners, err := f.rosterRepo.ListPlanners(organizerParty.ID)
	require.NoError(t, err)
	require.Len(t, planners, 1)
	assert.Equal(t, "Best Catering", planners[0].Name)
	assert.Equal(t, "supplier", planners[0].ConnectionType)

	// The originating supplier notification is now read.
	supplierNotifs, err := f.notificationRepo.FindForSupplier(supplierParty.Email, 0)
	require.NoError(t, err)
	require.Len(t, supplierNotifs, 1)
	assert.Equal(t, models.NotificationStatusRead, supplierNotifs[0].Status)

	// The organizer got the acceptance notification.
	adminNotifs, err := f.notificationRepo.FindForAdmin(organizerParty.ID, 0)
	require.NoError(t, err)
	require.Len(t, adminNotifs, 1)
	assert.Equal(t, repositories.NotificationTypeConnectionAccepted, adminNotifs[0].Type)
	assert.Contains(t, adminNotifs[0].Content, "Best Catering")
	assert.Contains(t, adminNotifs[0].Content, "accepted")

	assert.Contains(t, f.feed.published(), "admin:admin-1")
}

func TestAcceptConnectionRequest_WrongSupplierRejected(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	intruder := dto.ConnectionParty{ID: "supplier-2", Email: "other@catering.test"}
	_, err = f.service.AcceptConnectionRequest(ctx, sent.ID, intruder)
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrUnauthorized)

	// Status is untouched.
	stored, err := f.connectionRepo.FindByID(sent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, stored.Status)
}

func TestAcceptConnectionRequest_TerminalStateImmutable(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	_, err = f.service.DeclineConnectionRequest(ctx, sent.ID, supplierParty)
	require.NoError(t, err)

	// A declined request cannot be flipped to accepted afterwards.
	_, err = f.service.AcceptConnectionRequest(ctx, sent.ID, supplierParty)
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrUnauthorized)

	stored, err := f.connectionRepo.FindByID(sent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusDeclined, stored.Status)
}

func TestAcceptConnectionRequest_PlannerNotDuplicated(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	// The organizer already has this supplier from an earlier connection.
	require.NoError(t, f.rosterRepo.CreatePlanner(&models.Planner{
		UserID:         organizerParty.ID,
		Name:           "Best Catering",
		Email:          "best@catering.test",
		ConnectionType: "supplier",
	}))

	sent, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)
	_, err = f.service.AcceptConnectionRequest(ctx, sent.ID, supplierParty)
	require.NoError(t, err)

	planners, err := f.rosterRepo.ListPlanners(organizerParty.ID)
	require.NoError(t, err)
	assert.Len(t, planners, 1)
}

func TestPlannerExists_CaseInsensitive(t *testing.T) {
	f := newConnectionFixture(t)

	// Emails are stored normalized so the dedupe guard matches whatever
	// casing the request carried.
	require.NoError(t, f.rosterRepo.CreatePlanner(&models.Planner{
		UserID:         organizerParty.ID,
		Name:           "Best Catering",
		Email:          "Best@Catering.TEST",
		ConnectionType: "supplier",
	}))

	exists, err := f.rosterRepo.PlannerExists(organizerParty.ID, "best@catering.test")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeclineConnectionRequest_NoRosterWrites(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	resp, err := f.service.DeclineConnectionRequest(ctx, sent.ID, supplierParty)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusDeclined, resp.Status)

	liaisons, err := f.rosterRepo.ListLiaisons(supplierParty.ID)
	require.NoError(t, err)
	assert.Empty(t, liaisons)

	planners, err := f.rosterRepo.ListPlanners(organizerParty.ID)
	require.NoError(t, err)
	assert.Empty(t, planners)

	adminNotifs, err := f.notificationRepo.FindForAdmin(organizerParty.ID, 0)
	require.NoError(t, err)
	require.Len(t, adminNotifs, 1)
	assert.Equal(t, repositories.NotificationTypeConnectionDeclined, adminNotifs[0].Type)
	assert.Contains(t, adminNotifs[0].Content, "declined")
}

func TestGetConnectionRequests_Directions(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	_, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	sent, err := f.service.GetConnectionRequests(organizerParty.ID, repositories.ConnectionDirectionSent)
	require.NoError(t, err)
	assert.Equal(t, 1, sent.Total)

	received, err := f.service.GetConnectionRequests(supplierParty.ID, repositories.ConnectionDirectionReceived)
	require.NoError(t, err)
	assert.Equal(t, 1, received.Total)

	// The supplier sent nothing and the organizer received nothing.
	none, err := f.service.GetConnectionRequests(supplierParty.ID, repositories.ConnectionDirectionSent)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)

	_, err = f.service.GetConnectionRequests(organizerParty.ID, "sideways")
	assert.Error(t, err)
}

func TestAreUsersConnected_Directional(t *testing.T) {
	f := newConnectionFixture(t)
	ctx := context.Background()

	sent, err := f.service.SendConnectionRequest(ctx, organizerParty, supplierParty)
	require.NoError(t, err)

	before, err := f.service.AreUsersConnected(organizerParty.ID, supplierParty.ID)
	require.NoError(t, err)
	assert.False(t, before.Connected)

	_, err = f.service.AcceptConnectionRequest(ctx, sent.ID, supplierParty)
	require.NoError(t, err)

	after, err := f.service.AreUsersConnected(organizerParty.ID, supplierParty.ID)
	require.NoError(t, err)
	assert.True(t, after.Connected)

	// The reversed pair is a different key.
	reversed, err := f.service.AreUsersConnected(supplierParty.ID, organizerParty.ID)
	require.NoError(t, err)
	assert.False(t, reversed.Connected)
}
