package friends

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"circles/internal/domain/auth"

	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:friends_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&auth.User{}, &FriendRequest{}, &Friendship{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(NewRepository(db), auth.NewUserRepository(db)), db
}

func createUser(t *testing.T, db *gorm.DB, email string) int64 {
	t.Helper()
	u := auth.User{Email: email, Password: "x", FirstName: "Test", LastName: "User", Age: 30}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return u.ID
}

func TestSendRequestToSelfFails(t *testing.T) {
	svc, db := setupTestService(t)
	a := createUser(t, db, "a@x.com")

	_, err := svc.SendRequest(context.Background(), a, a)
	if !errors.Is(err, ErrSelfRequest) {
		t.Fatalf("expected ErrSelfRequest, got %v", err)
	}
}

func TestSendRequestUnknownReceiverFails(t *testing.T) {
	svc, db := setupTestService(t)
	a := createUser(t, db, "a@x.com")

	_, err := svc.SendRequest(context.Background(), a, a+999)
	if !errors.Is(err, ErrReceiverNotFound) {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}
}

func TestSendRequestBetweenFriendsFailsBothDirections(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com")
	b := createUser(t, db, "b@x.com")

	req, err := svc.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}
	if _, err := svc.UpdateRequest(ctx, req.ID, b, ActionAccept); err != nil {
		t.Fatalf("UpdateRequest returned error: %v", err)
	}

	if _, err := svc.SendRequest(ctx, a, b); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends for a->b, got %v", err)
	}
	if _, err := svc.SendRequest(ctx, b, a); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends for b->a, got %v", err)
	}
}

func TestSendRequestDuplicatePendingFailsBothDirections(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com")
	b := createUser(t, db, "b@x.com")

	if _, err := svc.SendRequest(ctx, a, b); err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}

	if _, err := svc.SendRequest(ctx, a, b); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest for same direction, got %v", err)
	}
	// A reverse pending request is blocked too.
	if _, err := svc.SendRequest(ctx, b, a); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest for reverse direction, got %v", err)
	}
}

func TestAcceptCreatesSingleEdgeAndFreezesRequest(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com")
	b := createUser(t, db, "b@x.com")

	req, err := svc.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}

	updated, err := svc.UpdateRequest(ctx, req.ID, b, ActionAccept)
	if err != nil {
		t.Fatalf("UpdateRequest returned error: %v", err)
	}
	if updated.Status != StatusAccepted {
		t.Fatalf("expected status accepted, got %s", updated.Status)
	}

	var edges int64
	db.Model(&Friendship{}).Count(&edges)
	if edges != 1 {
		t.Fatalf("expected exactly 1 friendship edge, got %d", edges)
	}

	// Terminal state: no further transitions for any action.
	if _, err := svc.UpdateRequest(ctx, req.ID, b, ActionAccept); !errors.Is(err, ErrInvalidPendingRequest) {
		t.Fatalf("expected ErrInvalidPendingRequest on re-accept, got %v", err)
	}
	if _, err := svc.UpdateRequest(ctx, req.ID, b, ActionDecline); !errors.Is(err, ErrInvalidPendingRequest) {
		t.Fatalf("expected ErrInvalidPendingRequest on decline after accept, got %v", err)
	}

	db.Model(&Friendship{}).Count(&edges)
	if edges != 1 {
		t.Fatalf("expected friendship edge count to stay 1, got %d", edges)
	}
}

func TestDeclineCreatesNoEdge(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com")
	b := createUser(t, db, "b@x.com")

	req, err := svc.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}

	updated, err := svc.UpdateRequest(ctx, req.ID, b, ActionDecline)
	if err != nil {
		t.Fatalf("UpdateRequest returned error: %v", err)
	}
	if updated.Status != StatusDeclined {
		t.Fatalf("expected status declined, got %s", updated.Status)
	}

	var edges int64
	db.Model(&Friendship{}).Count(&edges)
	if edges != 0 {
		t.Fatalf("expected no friendship edges, got %d", edges)
	}
}

func TestUpdateRequestByWrongReceiverFails(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com")
	b := createUser(t, db, "b@x.com")
	c := createUser(t, db, "c@x.com")

	req, err := svc.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}

	// Wrong user gets the same rejection as a missing request.
	if _, err := svc.UpdateRequest(ctx, req.ID, c, ActionAccept); !errors.Is(err, ErrInvalidPendingRequest) {
		t.Fatalf("expected ErrInvalidPendingRequest, got %v", err)
	}
	if _, err := svc.UpdateRequest(ctx, "no-such-id", b, ActionAccept); !errors.Is(err, ErrInvalidPendingRequest) {
		t.Fatalf("expected ErrInvalidPendingRequest for unknown id, got %v", err)
	}
}

func TestUpdateRequestRejectsUnknownAction(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com")
	b := createUser(t, db, "b@x.com")

	req, err := svc.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}

	if _, err := svc.UpdateRequest(ctx, req.ID, b, RequestAction("block")); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestListRequestsReturnsOnlyPendingIncoming(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com")
	b := createUser(t, db, "b@x.com")
	c := createUser(t, db, "c@x.com")
	d := createUser(t, db, "d@x.com")

	if _, err := svc.SendRequest(ctx, a, c); err != nil {
		t.Fatalf("SendRequest a->c returned error: %v", err)
	}
	if _, err := svc.SendRequest(ctx, b, c); err != nil {
		t.Fatalf("SendRequest b->c returned error: %v", err)
	}
	// A pair with a pending request cannot open a reverse one, so the
	// declined request comes from an uninvolved user.
	declined, err := svc.SendRequest(ctx, d, a)
	if err != nil {
		t.Fatalf("SendRequest d->a returned error: %v", err)
	}
	if _, err := svc.UpdateRequest(ctx, declined.ID, a, ActionDecline); err != nil {
		t.Fatalf("UpdateRequest returned error: %v", err)
	}

	reqs, err := svc.ListRequests(ctx, c)
	if err != nil {
		t.Fatalf("ListRequests returned error: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 pending requests for c, got %d", len(reqs))
	}
	for _, r := range reqs {
		if r.ReceiverID != c || r.Status != StatusPending {
			t.Fatalf("unexpected request in list: receiver=%d status=%s", r.ReceiverID, r.Status)
		}
		if r.Sender.Email == "" || r.Sender.FirstName == "" {
			t.Fatalf("expected sender profile to be loaded, got %+v", r.Sender)
		}
	}

	// Declined requests never show up for the old receiver either.
	aList, err := svc.ListRequests(ctx, a)
	if err != nil {
		t.Fatalf("ListRequests returned error: %v", err)
	}
	if len(aList) != 0 {
		t.Fatalf("expected no pending requests for a, got %d", len(aList))
	}
}
