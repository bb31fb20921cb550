package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventmaster-dev/eventmaster/internal/middleware"
	"github.com/eventmaster-dev/eventmaster/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Registration{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.MailerMiddleware(nil))

	public := r.Group("/v1")
	public.POST("/register", Register)
	public.POST("/login", Login)
	public.GET("/summary", Summary)
	public.GET("/events", ListEvents)
	public.GET("/events/search", SearchEvents)
	public.GET("/events/:id", GetEvent)

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	protected.GET("/my-events", MyEvents)
	protected.POST("/events", CreateEvent)
	protected.PUT("/events/:id", UpdateEvent)
	protected.DELETE("/events/:id", DeleteEvent)
	protected.POST("/events/:id/register", RegisterForEvent)
	protected.GET("/events/:id/attendees", ListAttendees)
	protected.DELETE("/events/:id/attendees/:attendee_id", RemoveAttendee)
	protected.GET("/events/:id/analytics", EventAnalytics)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func signup(t *testing.T, r *gin.Engine, username, role string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/v1/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/v1/login", "", gin.H{
		"email":    username + "@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("no token for %s", username)
	}
	return token
}

func createTestEvent(t *testing.T, r *gin.Engine, token string, capacity int) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/v1/events", token, gin.H{
		"title":       "Tech Conference 2024",
		"description": "Annual developer gathering",
		"category":    "conference",
		"tags":        "tech, networking",
		"date":        "2024-03-15",
		"time":        "09:00",
		"venue":       "Convention Center",
		"capacity":    capacity,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create event: status %d, body %s", w.Code, w.Body.String())
	}
	eventID, _ := decode(t, w)["event_id"].(string)
	if eventID == "" {
		t.Fatal("no event_id in create response")
	}
	return eventID
}

func TestAttendeeCannotCreateEvent(t *testing.T) {
	r := newTestRouter(t)
	attendee := signup(t, r, "alice", models.RoleAttendee)

	w := doJSON(t, r, http.MethodPost, "/v1/events", attendee, gin.H{
		"title":       "Rogue Event",
		"description": "Should not exist",
		"category":    "social",
		"date":        "2024-05-01",
		"time":        "18:00",
		"venue":       "Backyard",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRegistrationFlow(t *testing.T) {
	r := newTestRouter(t)
	organizer := signup(t, r, "org", models.RoleOrganizer)
	attendee := signup(t, r, "alice", models.RoleAttendee)

	eventID := createTestEvent(t, r, organizer, 2)

	// Attendee registers once.
	w := doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", attendee, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", w.Code, w.Body.String())
	}

	// Second attempt is rejected.
	w = doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", attendee, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status %d, want 409", w.Code)
	}

	// Organizer cannot register for their own event.
	w = doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", organizer, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self register: status %d, want 400", w.Code)
	}

	// Fill the remaining seat, then the next attendee is turned away.
	bob := signup(t, r, "bob", models.RoleAttendee)
	w = doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", bob, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("second register: status %d, body %s", w.Code, w.Body.String())
	}

	carol := signup(t, r, "carol", models.RoleAttendee)
	w = doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", carol, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("over-capacity register: status %d, want 409", w.Code)
	}
}

func TestAttendeeManagementIsOrganizerOnly(t *testing.T) {
	r := newTestRouter(t)
	organizer := signup(t, r, "org", models.RoleOrganizer)
	attendee := signup(t, r, "alice", models.RoleAttendee)

	eventID := createTestEvent(t, r, organizer, 0)

	w := doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", attendee, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d", w.Code)
	}

	// Non-owner cannot view attendees.
	w = doJSON(t, r, http.MethodGet, "/v1/events/"+eventID+"/attendees", attendee, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("attendees as non-owner: status %d, want 403", w.Code)
	}

	// Owner sees the registration.
	w = doJSON(t, r, http.MethodGet, "/v1/events/"+eventID+"/attendees", organizer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("attendees: status %d, body %s", w.Code, w.Body.String())
	}
	registrations, _ := decode(t, w)["registrations"].([]interface{})
	if len(registrations) != 1 {
		t.Fatalf("registrations = %d, want 1", len(registrations))
	}

	attendeeID, _ := registrations[0].(map[string]interface{})["attendee_id"].(string)
	if attendeeID == "" {
		t.Fatal("no attendee_id in registration")
	}

	// Owner removes the attendee; a second removal is a 404.
	w = doJSON(t, r, http.MethodDelete, "/v1/events/"+eventID+"/attendees/"+attendeeID, organizer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove attendee: status %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodDelete, "/v1/events/"+eventID+"/attendees/"+attendeeID, organizer, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("remove missing attendee: status %d, want 404", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)
	organizer := signup(t, r, "org", models.RoleOrganizer)
	createTestEvent(t, r, organizer, 0)

	w := doJSON(t, r, http.MethodGet, "/v1/events/search?query=conf", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status %d", w.Code)
	}
	events, _ := decode(t, w)["events"].([]interface{})
	if len(events) != 1 {
		t.Fatalf("search matched %d events, want 1", len(events))
	}

	w = doJSON(t, r, http.MethodGet, "/v1/events/search?query=nonexistent", "", nil)
	events, _ = decode(t, w)["events"].([]interface{})
	if len(events) != 0 {
		t.Fatalf("search matched %d events, want 0", len(events))
	}
}

func TestDeleteEventCascadesRegistrations(t *testing.T) {
	r := newTestRouter(t)
	organizer := signup(t, r, "org", models.RoleOrganizer)
	attendee := signup(t, r, "alice", models.RoleAttendee)

	eventID := createTestEvent(t, r, organizer, 0)

	w := doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", attendee, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d", w.Code)
	}

	// Non-owner delete is rejected.
	w = doJSON(t, r, http.MethodDelete, "/v1/events/"+eventID, attendee, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("delete as non-owner: status %d, want 403", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/v1/events/"+eventID, organizer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/v1/events/"+eventID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted event fetch: status %d, want 404", w.Code)
	}

	// The attendee's my-events view is empty again.
	w = doJSON(t, r, http.MethodGet, "/v1/my-events", attendee, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("my-events: status %d", w.Code)
	}
	events, _ := decode(t, w)["events"].([]interface{})
	if len(events) != 0 {
		t.Fatalf("my-events after delete = %d, want 0", len(events))
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	organizer := signup(t, r, "org", models.RoleOrganizer)
	eventID := createTestEvent(t, r, organizer, 4)

	for i := 0; i < 2; i++ {
		attendee := signup(t, r, fmt.Sprintf("attendee%d", i), models.RoleAttendee)
		w := doJSON(t, r, http.MethodPost, "/v1/events/"+eventID+"/register", attendee, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("register %d: status %d", i, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/v1/events/"+eventID+"/analytics", organizer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("analytics: status %d, body %s", w.Code, w.Body.String())
	}

	analytics, _ := decode(t, w)["analytics"].(map[string]interface{})
	if analytics == nil {
		t.Fatal("no analytics object in response")
	}
	if total := analytics["total_registrations"].(float64); total != 2 {
		t.Errorf("total = %v, want 2", total)
	}
	if recent := analytics["recent_registrations"].(float64); recent != 2 {
		t.Errorf("recent = %v, want 2", recent)
	}
	if utilization := analytics["capacity_utilization"].(float64); utilization != 50.0 {
		t.Errorf("utilization = %v, want 50.0", utilization)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	r := newTestRouter(t)
	organizer := signup(t, r, "org", models.RoleOrganizer)
	signup(t, r, "alice", models.RoleAttendee)
	createTestEvent(t, r, organizer, 0)

	w := doJSON(t, r, http.MethodGet, "/v1/summary", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: status %d", w.Code)
	}
	out := decode(t, w)
	if out["events_count"].(float64) != 1 {
		t.Errorf("events_count = %v, want 1", out["events_count"])
	}
	if out["users_count"].(float64) != 2 {
		t.Errorf("users_count = %v, want 2", out["users_count"])
	}
	if out["organizers_count"].(float64) != 1 {
		t.Errorf("organizers_count = %v, want 1", out["organizers_count"])
	}
}
