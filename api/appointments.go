package api

import (
	"appointments-system/appointment"
	"appointments-system/timezone"
	"appointments-system/user"
	"appointments-system/workinghours"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// createAppointmentRequest carries wall-clock bounds without an offset. They
// are interpreted in the creator's timezone.
type createAppointmentRequest struct {
	Title        string   `json:"title" validate:"required,max=256"`
	CreatorID    string   `json:"creator_id" validate:"required,uuid4"`
	Start        string   `json:"start" validate:"required"`
	End          string   `json:"end" validate:"required"`
	Participants []string `json:"participants" validate:"max=100,dive,uuid4"`
}

func (req createAppointmentRequest) toRequest() appointment.Request {
	participants := make([]uuid.UUID, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, uuid.MustParse(p))
	}
	return appointment.Request{
		Title:          req.Title,
		CreatorID:      uuid.MustParse(req.CreatorID),
		Start:          req.Start,
		End:            req.End,
		ParticipantIDs: participants,
	}
}

type rejectionResponse struct {
	Message  string                     `json:"message"`
	Failures []workinghours.ReportEntry `json:"failures"`
}

type checkResponse struct {
	Accepted    bool                       `json:"accepted"`
	Appointment *appointment.Appointment   `json:"appointment,omitempty"`
	Failures    []workinghours.ReportEntry `json:"failures,omitempty"`
}

type getAppointmentsResponse struct {
	Appointments []appointment.Appointment `json:"appointments"`
}

// decodeAppointment reads and validates the body. It writes the 400 itself
// and reports false when the request should stop.
func (a *API) decodeAppointment(w http.ResponseWriter, r *http.Request) (appointment.Request, bool) {
	var payload createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return appointment.Request{}, false
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Start = strings.TrimSpace(payload.Start)
	payload.End = strings.TrimSpace(payload.End)

	if err := a.validate.Struct(payload); err != nil {
		a.Response(w, http.StatusBadRequest, validationMessage(err))
		return appointment.Request{}, false
	}
	return payload.toRequest(), true
}

func (a *API) appointmentAccessor() *appointment.Accessor {
	return appointment.NewAccessor(a.db, user.NewAccessor(a.db))
}

func (a *API) createAppointment(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeAppointment(w, r)
	if !ok {
		return
	}

	now := a.now().UTC()
	accessor := a.appointmentAccessor()

	appt, err := accessor.Assemble(r.Context(), req, now)
	if err != nil {
		a.assembleError(w, r, req.CreatorID, err)
		return
	}

	created, err := accessor.CreateAppointment(r.Context(), *appt, now)
	if err != nil {
		a.internalError(w, r, "create appointment", err)
		return
	}
	a.log.Info("appointment created",
		"appointment_id", created.ID,
		"creator_id", created.CreatorID,
		"participants", len(created.ParticipantIDs),
	)
	a.Response(w, http.StatusCreated, created)
}

// checkAppointment runs the same validation as createAppointment without
// storing anything.
func (a *API) checkAppointment(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeAppointment(w, r)
	if !ok {
		return
	}

	appt, err := a.appointmentAccessor().Assemble(r.Context(), req, a.now().UTC())
	if err != nil {
		var report *workinghours.RejectionReport
		if errors.As(err, &report) {
			a.Response(w, http.StatusOK, checkResponse{Accepted: false, Failures: report.Entries})
			return
		}
		a.assembleError(w, r, req.CreatorID, err)
		return
	}
	a.Response(w, http.StatusOK, checkResponse{Accepted: true, Appointment: appt})
}

func (a *API) assembleError(w http.ResponseWriter, r *http.Request, creatorID uuid.UUID, err error) {
	var report *workinghours.RejectionReport
	switch {
	case errors.As(err, &report):
		a.log.Info("appointment rejected", "creator_id", creatorID, "failures", len(report.Entries))
		a.Response(w, http.StatusUnprocessableEntity, rejectionResponse{
			Message:  report.Error(),
			Failures: report.Entries,
		})
	case errors.Is(err, appointment.ErrInvalidRequest),
		errors.Is(err, timezone.ErrInvalidTimestamp),
		errors.Is(err, appointment.ErrInvalidInterval):
		a.Response(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, appointment.ErrCreatorNotFound):
		a.Response(w, http.StatusNotFound, err.Error())
	case errors.Is(err, appointment.ErrMissingTimezone),
		errors.Is(err, timezone.ErrUnknownTimezone):
		a.Response(w, http.StatusUnprocessableEntity, err.Error())
	default:
		a.internalError(w, r, "assemble appointment", err)
	}
}

func (a *API) getAppointments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		a.Response(w, http.StatusBadRequest, "userId is required")
		return
	}

	parsedID, err := uuid.Parse(userID)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	appts, err := a.appointmentAccessor().GetAppointmentsForUser(r.Context(), parsedID)
	if err != nil {
		a.internalError(w, r, "get appointments", err)
		return
	}
	a.Response(w, http.StatusOK, getAppointmentsResponse{Appointments: appts})
}

func (a *API) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	appt, err := a.appointmentAccessor().GetAppointment(r.Context(), id)
	if err != nil {
		a.internalError(w, r, "get appointment", err)
		return
	}
	if appt == nil {
		a.Response(w, http.StatusNotFound, "appointment not found")
		return
	}
	a.Response(w, http.StatusOK, appt)
}

func (a *API) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	deleted, err := a.appointmentAccessor().DeleteAppointment(r.Context(), id)
	if err != nil {
		a.internalError(w, r, "delete appointment", err)
		return
	}
	if !deleted {
		a.Response(w, http.StatusNotFound, "appointment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
