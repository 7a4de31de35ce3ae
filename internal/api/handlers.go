// Package api exposes HTTP handlers for the workout tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/workouttracker/internal/domain"
)

// Handler coordinates HTTP requests with the session.
type Handler struct {
	session  *domain.Session
	registry *domain.Registry
}

// NewHandler builds a Handler.
func NewHandler(session *domain.Session, registry *domain.Registry) *Handler {
	return &Handler{session: session, registry: registry}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/users", h.users)
	mux.HandleFunc("/v1/users/", h.userByID)
	mux.HandleFunc("/v1/session", h.sessionState)
	mux.HandleFunc("/v1/session/user", h.sessionUser)
	mux.HandleFunc("/v1/session/workouts", h.recordWorkout)
	mux.HandleFunc("/v1/leaderboard", h.leaderboard)
	mux.HandleFunc("/v1/feed", h.feed)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPost:
		h.registerUser(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.registry.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]UserView, 0, len(users))
	for _, u := range users {
		items = append(items, toUserView(u))
	}
	writeJSON(w, http.StatusOK, ListUsersResponse{Items: items})
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := h.session.Register(r.Context(), req.Name, req.Age)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserView(*user))
}

func (h *Handler) userByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if err := h.session.DeleteUser(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) sessionState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	writeJSON(w, http.StatusOK, h.sessionView())
}

func (h *Handler) sessionUser(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		var req SelectUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := h.session.Select(r.Context(), req.UserID); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.sessionView())
	case http.MethodDelete:
		h.session.SwitchUser()
		writeJSON(w, http.StatusOK, h.sessionView())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) recordWorkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req RecordWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.Completed == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "completed is required")
		return
	}

	workout, err := h.session.RecordWorkout(r.Context(), *req.Completed)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkoutView(*workout))
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	snapshot := h.session.Snapshot()
	entries := make([]LeaderboardEntry, 0, len(snapshot.Leaderboard))
	for i, u := range snapshot.Leaderboard {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			User:           toUserView(u),
			CompletedCount: snapshot.Counts[u.ID],
		})
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Entries: entries})
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	snapshot := h.session.Snapshot()
	entries := make([]FeedEntryView, 0, len(snapshot.Feed))
	for _, e := range snapshot.Feed {
		entries = append(entries, FeedEntryView{
			WorkoutID: e.Workout.ID,
			UserID:    e.Workout.UserID,
			UserName:  e.OwnerName,
			CreatedAt: e.Workout.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, FeedResponse{Entries: entries})
}

func (h *Handler) sessionView() SessionView {
	view := SessionView{
		State:     string(h.session.State()),
		LastError: h.session.LastError(),
	}
	if current := h.session.CurrentUser(); current != nil {
		u := toUserView(*current)
		view.User = &u
	}
	return view
}

// RegisterUserRequest is the payload for POST /v1/users.
type RegisterUserRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// SelectUserRequest is the payload for PUT /v1/session/user.
type SelectUserRequest struct {
	UserID string `json:"user_id"`
}

// RecordWorkoutRequest is the payload for POST /v1/session/workouts. The
// completed flag is a pointer so an omitted field is rejected rather than
// silently recorded as a miss.
type RecordWorkoutRequest struct {
	Completed *bool `json:"completed"`
}

// UserView exposes a user profile.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutView exposes a recorded check-in.
type WorkoutView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsersResponse packages the user list.
type ListUsersResponse struct {
	Items []UserView `json:"items"`
}

// SessionView reports the session state machine position.
type SessionView struct {
	State     string    `json:"state"`
	User      *UserView `json:"user,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank           int      `json:"rank"`
	User           UserView `json:"user"`
	CompletedCount int      `json:"completed_count"`
}

// LeaderboardResponse packages the ranked user list.
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// FeedEntryView is one recent completed workout with its owner's name.
type FeedEntryView struct {
	WorkoutID string    `json:"workout_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedResponse packages the recent-activity feed.
type FeedResponse struct {
	Entries []FeedEntryView `json:"entries"`
}

func toUserView(u domain.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Age: u.Age, CreatedAt: u.CreatedAt}
}

func toWorkoutView(w domain.Workout) WorkoutView {
	return WorkoutView{ID: w.ID, UserID: w.UserID, Completed: w.Completed, CreatedAt: w.CreatedAt}
}

func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		gatewayErr    *domain.GatewayError
	)
	switch {
	case errors.Is(err, domain.ErrBusy):
		writeError(w, http.StatusConflict, "busy", err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_failed", validationErr.Reason)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &gatewayErr):
		writeError(w, http.StatusBadGateway, "gateway_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
