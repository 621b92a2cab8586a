package handlers

import (
	"net/http"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/email"
)

// MinFormTime is how long the contact form must have been on screen
// before a submission is accepted. Bots submit instantly.
const MinFormTime = 3 * time.Second

// ContactHandler implements the public contact form.
type ContactHandler struct {
	logger     *common.Logger
	mailer     email.Sender
	adminEmail string
	now        func() time.Time
}

func NewContactHandler(logger *common.Logger, mailer email.Sender, adminEmail string) *ContactHandler {
	return &ContactHandler{
		logger:     logger,
		mailer:     mailer,
		adminEmail: adminEmail,
		now:        time.Now,
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`

	// Spam traps filled in by the frontend form.
	Honeypot     string `json:"_hp"`
	FormRendered int64  `json:"_ts"` // unix milliseconds
}

// Submit handles POST /api/contact. Submissions caught by either spam
// check get a success response so bots learn nothing.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req contactRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := validateContactForm(req.Name, req.Email, req.Message); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	if req.Honeypot != "" {
		h.logger.Warn().Str("email", common.RedactEmail(req.Email)).Msg("contact spam honeypot tripped")
		WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	if req.FormRendered > 0 {
		elapsed := h.now().Sub(time.UnixMilli(req.FormRendered))
		if elapsed < MinFormTime {
			h.logger.Warn().
				Str("email", common.RedactEmail(req.Email)).
				Str("elapsed", elapsed.String()).
				Msg("contact spam timing tripped")
			WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
	}

	subject, html, err := email.ContactFormEmail(email.ContactData{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err == nil {
		err = h.mailer.Send(r.Context(), email.Message{
			To:      h.adminEmail,
			Subject: subject,
			HTML:    html,
		})
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to send contact email")
		WriteError(w, http.StatusInternalServerError, CodeServerError,
			"Failed to send message. Please try again or contact us directly.")
		return
	}

	h.logger.Info().Str("email", common.RedactEmail(req.Email)).Msg("contact message sent")
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
