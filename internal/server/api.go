package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/music"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/shared"
)

// ServiceLookup resolves a recurring service by ID.
type ServiceLookup interface {
	Get(id string) (*models.RecurringService, error)
}

// NotificationSource lists every stored notification.
type NotificationSource interface {
	All() ([]models.SetlistNotification, error)
}

// SetlistChecker reports whether a setlist exists for a service on a date.
type SetlistChecker interface {
	ExistsFor(serviceID, date string) (bool, error)
}

// API serves the read-only scheduling endpoints.
type API struct {
	mux           *http.ServeMux
	scheduler     *scheduling.Scheduler
	services      ServiceLookup
	notifications NotificationSource
	setlists      SetlistChecker
}

// Endpoint is one route the API serves.
type Endpoint struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// NewAPI wires the endpoints. setlists may be nil, in which case overdue is never reported.
func NewAPI(scheduler *scheduling.Scheduler, services ServiceLookup, notifications NotificationSource, setlists SetlistChecker) *API {
	a := &API{
		mux:           http.NewServeMux(),
		scheduler:     scheduler,
		services:      services,
		notifications: notifications,
		setlists:      setlists,
	}
	for _, e := range a.Endpoints() {
		a.mux.Handle(e.Method+" "+e.Path, e.Handler)
	}
	return a
}

// Endpoints lists the API's routes.
func (a *API) Endpoints() []Endpoint {
	return []Endpoint{
		{http.MethodGet, "/health", a.health},
		{http.MethodGet, "/api/transpose", a.transpose},
		{http.MethodGet, "/api/transpose/capo", a.capo},
		{http.MethodGet, "/api/services/{id}/next", a.nextService},
		{http.MethodGet, "/api/notifications/active", a.activeNotifications},
	}
}

// Register adds each endpoint to router by method and path.
func (a *API) Register(router Router) {
	for _, e := range a.Endpoints() {
		router.Handle(e.Method, e.Path, e.Handler)
	}
}

// Routes returns the prefixes the API owns when mounted whole with [Router.Handler].
func (a *API) Routes() []string {
	return []string{"/health", "/api/"}
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

type errorBody struct {
	Error string `json:"error"`
}

// NextService is the response for a service's upcoming occurrence.
type NextService struct {
	ServiceID       string `json:"serviceId"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DisplayTime     string `json:"displayTime"`
	SetlistReminder string `json:"setlistReminder"`
	TeamReminder    string `json:"teamReminder"`
	Overdue         bool   `json:"overdue"`
}

// CapoResult is the response for a capo lookup.
type CapoResult struct {
	Key         string `json:"key"`
	Fret        int    `json:"fret"`
	SoundingKey string `json:"soundingKey"`
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) transpose(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, fmt.Errorf("%w: from and to are required", shared.ErrMissingArgument))
		return
	}

	info, err := music.CalculateTransposition(from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *API) capo(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !music.ValidKey(key) {
		writeError(w, fmt.Errorf("%w: %q", shared.ErrInvalidKey, key))
		return
	}
	fret, err := strconv.Atoi(r.URL.Query().Get("fret"))
	if err != nil || fret < 0 || fret > 11 {
		writeError(w, fmt.Errorf("%w: fret must be 0-11", shared.ErrInvalidArgument))
		return
	}
	writeJSON(w, http.StatusOK, CapoResult{Key: key, Fret: fret, SoundingKey: music.CapoKey(key, fret)})
}

func (a *API) nextService(w http.ResponseWriter, r *http.Request) {
	if a.services == nil {
		writeError(w, shared.ErrServiceUnavailable)
		return
	}
	service, err := a.services.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	date, err := a.scheduler.NextServiceDate(*service, a.scheduler.Current())
	if err != nil {
		writeError(w, err)
		return
	}
	display, err := scheduling.FormatServiceTime(service.Time)
	if err != nil {
		writeError(w, err)
		return
	}
	reminders := a.scheduler.ReminderDates(*service, date)

	resp := NextService{
		ServiceID:       service.ID,
		Title:           service.Title,
		Date:            shared.FormatDate(date),
		Time:            service.Time,
		DisplayTime:     display,
		SetlistReminder: shared.FormatDate(reminders.Setlist),
		TeamReminder:    shared.FormatDate(reminders.Team),
	}
	if a.setlists != nil {
		exists, err := a.setlists.ExistsFor(service.ID, resp.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Overdue = a.scheduler.IsSetlistOverdue(*service, date, exists)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) activeNotifications(w http.ResponseWriter, _ *http.Request) {
	if a.notifications == nil {
		writeError(w, shared.ErrServiceUnavailable)
		return
	}
	all, err := a.notifications.All()
	if err != nil {
		writeError(w, err)
		return
	}
	active := a.scheduler.ActiveNotifications(all, a.scheduler.Current())
	if active == nil {
		active = []models.SetlistNotification{}
	}
	writeJSON(w, http.StatusOK, active)
}

// statusFor maps sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrServiceNotFound),
		errors.Is(err, shared.ErrSetlistNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidKey),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidService), errors.Is(err, shared.ErrInvalidTime):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
