package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/workouttracker/internal/domain"
	"example.com/workouttracker/internal/gateway/memory"
)

func newTestMux(t *testing.T) (*http.ServeMux, *domain.Session) {
	t.Helper()
	store := memory.NewStore()
	registry := domain.NewRegistry(store)
	ledger := domain.NewLedger(store, store)
	session := domain.NewSession(registry, ledger)

	mux := http.NewServeMux()
	NewHandler(session, registry).RegisterRoutes(mux)
	return mux, session
}

func TestRegisterUserActivatesSession(t *testing.T) {
	mux, session := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{"name":"Alice","age":30}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var created UserView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" || created.Name != "Alice" {
		t.Fatalf("unexpected user view: %+v", created)
	}

	if session.State() != domain.StateActive {
		t.Fatalf("expected active session got %s", session.State())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var view SessionView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode session view: %v", err)
	}
	if view.State != string(domain.StateActive) || view.User == nil || view.User.ID != created.ID {
		t.Fatalf("unexpected session view: %+v", view)
	}
}

func TestRegisterUserValidationFailure(t *testing.T) {
	mux, session := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{"name":"  ","age":30}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
	if session.State() != domain.StateNoUser {
		t.Fatalf("failed registration must not activate the session")
	}
}

func TestRecordWorkoutWithoutActiveUser(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/session/workouts", strings.NewReader(`{"completed":true}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRecordWorkoutRequiresCompletedField(t *testing.T) {
	mux, session := newTestMux(t)
	if _, err := session.Register(context.Background(), "Alice", 30); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/session/workouts", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLeaderboardOrdersByCompletedCount(t *testing.T) {
	mux, session := newTestMux(t)
	ctx := context.Background()

	low, err := session.Register(ctx, "Low", 30)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := session.RecordWorkout(ctx, true); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	high, err := session.Register(ctx, "High", 40)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := session.RecordWorkout(ctx, true); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var resp LeaderboardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode leaderboard: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries got %d", len(resp.Entries))
	}
	if resp.Entries[0].User.ID != high.ID || resp.Entries[0].CompletedCount != 3 {
		t.Fatalf("unexpected first entry: %+v", resp.Entries[0])
	}
	if resp.Entries[1].User.ID != low.ID || resp.Entries[1].CompletedCount != 1 {
		t.Fatalf("unexpected second entry: %+v", resp.Entries[1])
	}
}

func TestDeleteUserEmptiesFeedAndSession(t *testing.T) {
	mux, session := newTestMux(t)
	ctx := context.Background()

	user, err := session.Register(ctx, "Alice", 30)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := session.RecordWorkout(ctx, true); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/users/"+user.ID, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rr.Code, rr.Body.String())
	}
	if session.State() != domain.StateNoUser {
		t.Fatalf("deleting the current user must clear the selection")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var feed FeedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &feed); err != nil {
		t.Fatalf("failed to decode feed: %v", err)
	}
	if len(feed.Entries) != 0 {
		t.Fatalf("expected empty feed got %d entries", len(feed.Entries))
	}
}
