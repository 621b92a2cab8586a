package handlers

import (
	"errors"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/email"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

// ApplicationHandler implements the public application form and the
// back office review endpoints.
type ApplicationHandler struct {
	logger       *common.Logger
	applications interfaces.ApplicationStore
	dogs         interfaces.DogStore
	mailer       email.Sender
	adminEmail   string
}

func NewApplicationHandler(logger *common.Logger, applications interfaces.ApplicationStore,
	dogs interfaces.DogStore, mailer email.Sender, adminEmail string) *ApplicationHandler {
	return &ApplicationHandler{
		logger:       logger,
		applications: applications,
		dogs:         dogs,
		mailer:       mailer,
		adminEmail:   adminEmail,
	}
}

type createApplicationRequest struct {
	DogID         string `json:"dog_id"`
	ApplicantName string `json:"applicant_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// Create handles POST /api/applications. The dog must exist and still
// be available. Notification emails are best effort.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req createApplicationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if req.ApplicantName == "" {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "Name is required")
		return
	}
	if err := validateEmail(req.Email); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if req.Phone == "" {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "Phone is required")
		return
	}

	dog, err := h.dogs.Get(r.Context(), req.DogID)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Dog not found")
		return
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", req.DogID).Msg("failed to get dog")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	if dog.Status != models.DogStatusAvailable {
		WriteError(w, http.StatusConflict, CodeDogNotAvailable,
			"This dog is no longer available for applications")
		return
	}

	app := &models.Application{
		ID:            ulid.Make().String(),
		DogID:         req.DogID,
		ApplicantName: req.ApplicantName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Status:        models.ApplicationStatusPending,
	}
	if err := h.applications.Insert(r.Context(), app); err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to insert application")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Failed to submit application")
		return
	}

	h.logger.Info().
		Str("application_id", app.ID).
		Str("dog_id", app.DogID).
		Str("email", common.RedactEmail(app.Email)).
		Msg("application submitted")

	h.sendApplicationEmails(r, app, dog.Name)

	WriteJSON(w, http.StatusOK, map[string]string{"id": app.ID})
}

func (h *ApplicationHandler) sendApplicationEmails(r *http.Request, app *models.Application, dogName string) {
	data := email.ApplicationData{
		ApplicantName: app.ApplicantName,
		DogName:       dogName,
		Email:         app.Email,
		Phone:         app.Phone,
		Address:       app.Address,
	}

	if h.adminEmail != "" {
		subject, html, err := email.NewApplicationAdminEmail(data)
		if err == nil {
			err = h.mailer.Send(r.Context(), email.Message{To: h.adminEmail, Subject: subject, HTML: html})
		}
		if err != nil {
			h.logger.Warn().Str("error", err.Error()).Msg("failed to send admin application email")
		}
	}

	subject, html, err := email.ApplicationConfirmationEmail(data)
	if err == nil {
		err = h.mailer.Send(r.Context(), email.Message{To: app.Email, Subject: subject, HTML: html})
	}
	if err != nil {
		h.logger.Warn().
			Str("error", err.Error()).
			Str("email", common.RedactEmail(app.Email)).
			Msg("failed to send application confirmation email")
	}
}

// List handles GET /api/admin/applications with an optional status
// filter.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !validApplicationStatus(status) {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid status filter")
		return
	}

	apps, err := h.applications.List(r.Context(), status)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to list applications")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"items": apps})
}

// Get handles GET /api/admin/applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := r.PathValue("id")
	app, err := h.applications.Get(r.Context(), id)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Application not found")
		return
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("application_id", id).Msg("failed to get application")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"application": app})
}

type updateApplicationStatusRequest struct {
	Status string `json:"status"`
}

func validApplicationStatus(s string) bool {
	switch s {
	case models.ApplicationStatusPending, models.ApplicationStatusApproved, models.ApplicationStatusRejected:
		return true
	}
	return false
}

// UpdateStatus handles POST /api/admin/applications/{id}/status.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	id := r.PathValue("id")
	var req updateApplicationStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if !validApplicationStatus(req.Status) {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid status")
		return
	}

	app, err := h.applications.UpdateStatus(r.Context(), id, req.Status)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Application not found")
		return
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("application_id", id).Msg("failed to update application status")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	h.logger.Info().Str("application_id", id).Str("status", req.Status).Msg("application status updated")
	WriteJSON(w, http.StatusOK, map[string]any{"application": app})
}
