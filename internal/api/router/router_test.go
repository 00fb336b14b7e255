package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/establishments"
	"github.com/rai252/Cliniify-marketplaces/internal/feedback"
	"github.com/rai252/Cliniify-marketplaces/internal/patients"
	"github.com/rai252/Cliniify-marketplaces/internal/search"
	"github.com/rai252/Cliniify-marketplaces/internal/stats"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()

	doctorRepo := doctors.NewInMemoryRepository()
	doctorRepo.Put(&doctors.Doctor{
		ID:                   "doc-1",
		FullName:             "Meera Kulkarni",
		Specializations:      []string{"Dermatology"},
		IsVerified:           true,
		ConsultationDuration: "00:30",
		Address:              &doctors.Address{City: "Pune", State: "Maharashtra"},
	})

	apptRepo := appointments.NewInMemoryRepository()
	apptSvc := appointments.NewService(apptRepo, doctorRepo, nil, nil, logger)

	patientRepo := patients.NewInMemoryRepository()
	feedbackRepo := feedback.NewInMemoryRepository()
	estRepo := establishments.NewInMemoryRepository()
	staffSvc := establishments.NewStaffService(estRepo, doctorRepo, logger)
	searchSvc := search.NewService(doctorRepo, estRepo, feedbackRepo, nil, nil, logger)
	statsSvc := stats.NewService(apptRepo, nil)

	cfg := &Config{
		Logger:                logger,
		PatientsHandler:       patients.NewHandler(patientRepo, logger),
		DoctorsHandler:        doctors.NewHandler(doctorRepo, apptRepo, nil, logger, "00:00", "23:59"),
		AppointmentsHandler:   appointments.NewHandler(apptSvc, logger),
		FeedbackHandler:       feedback.NewHandler(feedbackRepo, logger),
		EstablishmentsHandler: establishments.NewHandler(estRepo, staffSvc, logger),
		SearchHandler:         search.NewHandler(searchSvc, logger),
		StatsHandler:          stats.NewHandler(statsSvc, logger),
		UserAuthSecret:        testSecret,
	}

	return New(cfg)
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterPublicDoctorRoutes(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/doctors/doc-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var doctor doctors.Doctor
	if err := json.NewDecoder(rr.Body).Decode(&doctor); err != nil {
		t.Fatalf("failed to decode doctor: %v", err)
	}
	if doctor.FullName != "Meera Kulkarni" {
		t.Errorf("unexpected doctor name %q", doctor.FullName)
	}
}

func TestRouterSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/search?q=derma&location=Pune", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestRouterAppointmentsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestRouterAuthenticatedBooking(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]any{
		"patient_id": "pat-1",
		"doctor_id":  "doc-1",
		"date":       "2026-09-07",
		"start_time": "10:00",
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearerToken(t, "pat-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var appt appointments.Appointment
	if err := json.NewDecoder(rr.Body).Decode(&appt); err != nil {
		t.Fatalf("failed to decode appointment: %v", err)
	}
	if appt.Status != appointments.StatusPending {
		t.Errorf("expected pending status, got %q", appt.Status)
	}
}

func TestRouterStatsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/stats/appointments", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/stats/appointments", nil)
	req.Header.Set("Authorization", bearerToken(t, "doc-1"))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}
