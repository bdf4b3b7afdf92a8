package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/roast"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/service"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/store"
)

func newTestService(t *testing.T) (*service.Service, *store.JSONStore) {
	t.Helper()
	dataFile := filepath.Join(t.TempDir(), "state.json")
	st, err := store.NewJSONStore(dataFile)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	return service.New(st), st
}

// seedGroup creates a user, a group containing the user, and an active
// session with the given goal. Returns user id and group id.
func seedGroup(t *testing.T, svc *service.Service, goal string) (string, string) {
	t.Helper()
	user, err := svc.CreateUser(service.CreateUserRequest{
		Email: "dev@example.com",
		Name:  "Dev",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	group, _, err := svc.CreateGroup(service.CreateGroupRequest{
		Name:      "study squad",
		CreatorID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if goal != "" {
		if _, err := svc.StartSession(service.StartSessionRequest{
			UserID: user.ID,
			Goal:   goal,
		}); err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}
	}
	return user.ID, group.ID
}

type fakeRoaster struct {
	roastText string
	roastErr  error
	aligned   bool
	alignErr  error

	generateCalls int
	alignCalls    int
}

func (f *fakeRoaster) Generate(_ context.Context, _ roast.Request) (string, error) {
	f.generateCalls++
	return f.roastText, f.roastErr
}

func (f *fakeRoaster) CheckAlignment(_ context.Context, _ string, _ string) (bool, error) {
	f.alignCalls++
	return f.aligned, f.alignErr
}

func TestCreateUserValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	if _, err := svc.CreateUser(service.CreateUserRequest{Name: "x"}); !errors.Is(err, service.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := svc.CreateUser(service.CreateUserRequest{Email: "a@b.c"}); !errors.Is(err, service.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CreateUser(service.CreateUserRequest{Email: "a@b.c", Name: "A"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := svc.CreateUser(service.CreateUserRequest{Email: "A@B.C", Name: "B"}); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for same email, got %v", err)
	}
}

func TestCreateGroupSeedsPetAtFullHealth(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	_, groupID := seedGroup(t, svc, "")
	pet, ok, err := st.GetPetByGroup(groupID)
	if err != nil || !ok {
		t.Fatalf("GetPetByGroup() = %v, %v", ok, err)
	}
	if pet.Health != 100 || pet.Dead {
		t.Fatalf("expected fresh pet at 100, got %+v", pet)
	}

	group, err := svc.GetGroup(groupID)
	if err != nil {
		t.Fatalf("GetGroup() error = %v", err)
	}
	if group.RoastLevel != 5 {
		t.Fatalf("expected default roast level 5, got %d", group.RoastLevel)
	}
}

func TestJoinGroupRejectsDuplicates(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, groupID := seedGroup(t, svc, "")
	if _, err := svc.JoinGroup(groupID, userID); !errors.Is(err, service.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	other, err := svc.CreateUser(service.CreateUserRequest{Email: "two@example.com", Name: "Two"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	group, err := svc.JoinGroup(groupID, other.ID)
	if err != nil {
		t.Fatalf("JoinGroup() error = %v", err)
	}
	if len(group.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(group.Members))
	}
}

func TestSetGroupRoastLevelBounds(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, groupID := seedGroup(t, svc, "")
	for _, bad := range []int{0, 11, -3} {
		if _, err := svc.SetGroupRoastLevel(groupID, bad); !errors.Is(err, service.ErrInvalidRoastLevel) {
			t.Fatalf("level %d: expected ErrInvalidRoastLevel, got %v", bad, err)
		}
	}
	group, err := svc.SetGroupRoastLevel(groupID, 9)
	if err != nil {
		t.Fatalf("SetGroupRoastLevel() error = %v", err)
	}
	if group.RoastLevel != 9 {
		t.Fatalf("expected level 9, got %d", group.RoastLevel)
	}
}

func TestIngestEventNeutralIsNoOp(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	resp, err := svc.IngestEvent(service.IngestEventRequest{
		UserID:   userID,
		Emotion:  "neutral",
		Focus:    "focused",
		Wave:     "not_detected",
		ThumbsUp: "not_detected",
	})
	if err != nil {
		t.Fatalf("IngestEvent() error = %v", err)
	}
	if resp.Message != "no significant event" || resp.EventID != "" {
		t.Fatalf("expected no-op response, got %+v", resp)
	}
	events, err := st.ListEventsByUser(userID, 10)
	if err != nil {
		t.Fatalf("ListEventsByUser() error = %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no stored events, got %d", len(events))
	}
}

func TestIngestEventRejectsBadValue(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	_, err := svc.IngestEvent(service.IngestEventRequest{
		UserID: userID,
		Wave:   "sideways",
	})
	if !errors.Is(err, service.ErrInvalidEventValue) {
		t.Fatalf("expected ErrInvalidEventValue, got %v", err)
	}
	events, err := st.ListEventsByUser(userID, 10)
	if err != nil {
		t.Fatalf("ListEventsByUser() error = %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("rejected event must not be stored, got %d", len(events))
	}
}

func TestIngestEventPrecedence(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	resp, err := svc.IngestEvent(service.IngestEventRequest{
		UserID:   userID,
		Focus:    "distracted",
		Wave:     "detected",
		ThumbsUp: "detected",
		Emotion:  "happy",
	})
	if err != nil {
		t.Fatalf("IngestEvent() error = %v", err)
	}
	if resp.EventType != "eye_movement" || resp.EventValue != "distracted" {
		t.Fatalf("distraction must win precedence, got %s=%s", resp.EventType, resp.EventValue)
	}

	resp, err = svc.IngestEvent(service.IngestEventRequest{
		UserID:   userID,
		Wave:     "detected",
		ThumbsUp: "detected",
		Emotion:  "happy",
	})
	if err != nil {
		t.Fatalf("IngestEvent() error = %v", err)
	}
	if resp.EventType != "wave" {
		t.Fatalf("wave should beat thumbs_up and emotion, got %s", resp.EventType)
	}
}

func TestIngestEventRequiresActiveSession(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "")
	_, err := svc.IngestEvent(service.IngestEventRequest{
		UserID: userID,
		Focus:  "distracted",
	})
	if !errors.Is(err, service.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}

	if _, err := svc.IngestEvent(service.IngestEventRequest{UserID: "usr_ghost", Focus: "distracted"}); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDistractionRoastsWithFallbackWhenNoClient(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	userID, groupID := seedGroup(t, svc, "finish thesis")
	resp, err := svc.IngestEvent(service.IngestEventRequest{
		UserID: userID,
		Focus:  "distracted",
	})
	if err != nil {
		t.Fatalf("IngestEvent() error = %v", err)
	}
	if resp.Roast != roast.Fallback {
		t.Fatalf("expected fallback roast, got %q", resp.Roast)
	}
	roasts, err := st.ListRoastsByGroup(groupID)
	if err != nil {
		t.Fatalf("ListRoastsByGroup() error = %v", err)
	}
	if len(roasts) != 1 || roasts[0].TargetUserID != userID {
		t.Fatalf("expected one stored roast for user, got %+v", roasts)
	}
}

// brokenRoastStore injects a write failure into roast history only.
type brokenRoastStore struct {
	store.Store
}

func (b brokenRoastStore) AddRoast(model.Roast) error {
	return errors.New("disk full")
}

func TestRoastHistoryWriteFailureSurfaces(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	svc = service.New(brokenRoastStore{Store: st})

	_, err := svc.IngestEvent(service.IngestEventRequest{
		UserID: userID,
		Focus:  "distracted",
	})
	if err == nil || !strings.Contains(err.Error(), "save roast") {
		t.Fatalf("expected roast persistence error, got %v", err)
	}
}

func TestAlignedTabURLSuppressesRoast(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	roaster := &fakeRoaster{aligned: true, roastText: "should not appear"}
	svc.SetRoastClient(roaster)

	resp, err := svc.IngestEvent(service.IngestEventRequest{
		UserID:        userID,
		Focus:         "distracted",
		CurrentTabURL: "https://scholar.google.com/thesis",
	})
	if err != nil {
		t.Fatalf("IngestEvent() error = %v", err)
	}
	if resp.Roast != "" {
		t.Fatalf("aligned URL must suppress roast, got %q", resp.Roast)
	}
	if roaster.generateCalls != 0 {
		t.Fatalf("generation must not run when aligned")
	}
}

func TestAlignmentFailureRoastsAnyway(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	roaster := &fakeRoaster{alignErr: errors.New("model down"), roastText: "back to work"}
	svc.SetRoastClient(roaster)

	resp, err := svc.IngestEvent(service.IngestEventRequest{
		UserID:        userID,
		Focus:         "distracted",
		CurrentTabURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("IngestEvent() error = %v", err)
	}
	if resp.Roast != "back to work" {
		t.Fatalf("alignment failure must not suppress roast, got %q", resp.Roast)
	}
}

func TestGenerationFailureFallsBack(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	svc.SetRoastClient(&fakeRoaster{roastErr: errors.New("quota")})

	resp, err := svc.IngestEvent(service.IngestEventRequest{
		UserID: userID,
		Focus:  "distracted",
	})
	if err != nil {
		t.Fatalf("IngestEvent() error = %v", err)
	}
	if resp.Roast != roast.Fallback {
		t.Fatalf("expected fallback on generation failure, got %q", resp.Roast)
	}
}

func TestCheckURLPenalizesPet(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	userID, groupID := seedGroup(t, svc, "")
	resp, err := svc.CheckURL(service.CheckURLRequest{
		URL:    "https://facebook.com/feed",
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("CheckURL() error = %v", err)
	}
	if resp.IsProductive {
		t.Fatalf("facebook must be unproductive")
	}
	if !strings.Contains(resp.Message, "distract") {
		t.Fatalf("message should mention distraction, got %q", resp.Message)
	}
	pet, _, err := st.GetPetByGroup(groupID)
	if err != nil {
		t.Fatalf("GetPetByGroup() error = %v", err)
	}
	if pet.Health != 95 {
		t.Fatalf("expected health 95 after penalty, got %d", pet.Health)
	}
}

func TestCheckURLProductiveLeavesPetAlone(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	userID, groupID := seedGroup(t, svc, "")
	resp, err := svc.CheckURL(service.CheckURLRequest{
		URL:    "https://coursera.org/learn/go",
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("CheckURL() error = %v", err)
	}
	if !resp.IsProductive {
		t.Fatalf("coursera must be productive, got %+v", resp)
	}
	pet, _, _ := st.GetPetByGroup(groupID)
	if pet.Health != 100 {
		t.Fatalf("productive URL must not touch health, got %d", pet.Health)
	}
}

func TestCheckURLRequiresURL(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	if _, err := svc.CheckURL(service.CheckURLRequest{}); !errors.Is(err, service.ErrURLRequired) {
		t.Fatalf("expected ErrURLRequired, got %v", err)
	}
}

func TestDeadPetIgnoresPenaltiesUntilReset(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, groupID := seedGroup(t, svc, "")
	pet, err := svc.AdjustPetHealth(groupID, -250)
	if err != nil {
		t.Fatalf("AdjustPetHealth() error = %v", err)
	}
	if pet.Health != 0 || !pet.Dead {
		t.Fatalf("expected dead pet at 0, got %+v", pet)
	}

	// Further damage and URL penalties are ignored while dead.
	pet, err = svc.AdjustPetHealth(groupID, -10)
	if err != nil {
		t.Fatalf("AdjustPetHealth() error = %v", err)
	}
	if pet.Health != 0 {
		t.Fatalf("dead pet must not change, got %d", pet.Health)
	}
	if _, err := svc.CheckURL(service.CheckURLRequest{URL: "https://facebook.com", UserID: userID}); err != nil {
		t.Fatalf("CheckURL() error = %v", err)
	}
	display, err := svc.GetPetDisplay(groupID)
	if err != nil {
		t.Fatalf("GetPetDisplay() error = %v", err)
	}
	if display.Health != 0 || !display.Dead {
		t.Fatalf("expected dead display, got %+v", display)
	}

	pet, err = svc.ResetPet(groupID)
	if err != nil {
		t.Fatalf("ResetPet() error = %v", err)
	}
	if pet.Health != 100 || pet.Dead {
		t.Fatalf("reset must revive at 100, got %+v", pet)
	}
}

func TestAdjustPetHealthClampsHigh(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, groupID := seedGroup(t, svc, "")
	pet, err := svc.AdjustPetHealth(groupID, 50)
	if err != nil {
		t.Fatalf("AdjustPetHealth() error = %v", err)
	}
	if pet.Health != 100 {
		t.Fatalf("expected clamp at 100, got %d", pet.Health)
	}
}

func TestCaptureBetIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "")
	pet, err := svc.CaptureBetByUser(userID)
	if err != nil {
		t.Fatalf("CaptureBetByUser() error = %v", err)
	}
	if !pet.Captured {
		t.Fatalf("expected captured pet")
	}
	again, err := svc.CaptureBetByUser(userID)
	if err != nil {
		t.Fatalf("CaptureBetByUser() second call error = %v", err)
	}
	if !again.Captured {
		t.Fatalf("capture must stay set")
	}
}

func TestStartSessionCancelsPreviousActive(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)

	userID, _ := seedGroup(t, svc, "")
	first, err := svc.StartSession(service.StartSessionRequest{UserID: userID, Goal: "read chapter 1"})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	second, err := svc.StartSession(service.StartSessionRequest{UserID: userID, Goal: "read chapter 2"})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	prev, ok, err := st.GetSession(first.ID)
	if err != nil || !ok {
		t.Fatalf("GetSession() = %v, %v", ok, err)
	}
	if prev.Status != "cancelled" {
		t.Fatalf("previous session should be cancelled, got %s", prev.Status)
	}
	active, ok, err := st.GetActiveSessionByUser(userID)
	if err != nil || !ok {
		t.Fatalf("GetActiveSessionByUser() = %v, %v", ok, err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected new session active, got %s", active.ID)
	}
}

func TestCompleteAndCancelSession(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "")
	session, err := svc.StartSession(service.StartSessionRequest{UserID: userID, Goal: "ship the thing"})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	done, err := svc.CompleteSession(session.ID)
	if err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}
	if done.Status != "completed" {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if _, err := svc.CancelSession(session.ID); !errors.Is(err, service.ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive, got %v", err)
	}
	if _, err := svc.CompleteSession("ses_missing"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTicksFeedRoastContext(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, _ := seedGroup(t, svc, "finish thesis")
	if _, err := svc.AddTick(service.AddTickRequest{UserID: userID, Content: "   "}); !errors.Is(err, service.ErrTickContentEmpty) {
		t.Fatalf("expected ErrTickContentEmpty, got %v", err)
	}
	if _, err := svc.AddTick(service.AddTickRequest{UserID: userID, Content: "third coffee today"}); err != nil {
		t.Fatalf("AddTick() error = %v", err)
	}
	ticks, err := svc.ListTicks(userID, 10)
	if err != nil {
		t.Fatalf("ListTicks() error = %v", err)
	}
	if len(ticks) != 1 || ticks[0].Content != "third coffee today" {
		t.Fatalf("unexpected ticks %+v", ticks)
	}
}

func TestRoastStatsAggregatePerTarget(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	userID, groupID := seedGroup(t, svc, "finish thesis")
	for i := 0; i < 3; i++ {
		if _, err := svc.IngestEvent(service.IngestEventRequest{UserID: userID, Focus: "distracted"}); err != nil {
			t.Fatalf("IngestEvent() error = %v", err)
		}
	}

	stats, err := svc.RoastStats(groupID)
	if err != nil {
		t.Fatalf("RoastStats() error = %v", err)
	}
	if len(stats) != 1 || stats[0].TargetUserID != userID || stats[0].Count != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	history, err := svc.RoastHistory(groupID)
	if err != nil {
		t.Fatalf("RoastHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 roasts, got %d", len(history))
	}
}
