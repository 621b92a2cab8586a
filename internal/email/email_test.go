package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/config"
)

func TestContactFormEmail(t *testing.T) {
	subject, html, err := ContactFormEmail(ContactData{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "555-0101",
		Message: "Is Rex still available?",
	})
	if err != nil {
		t.Fatalf("ContactFormEmail: %v", err)
	}
	if subject != "Contact Form: Message from Jane Doe" {
		t.Errorf("unexpected subject: %s", subject)
	}
	for _, want := range []string{"Jane Doe", "jane@example.com", "555-0101", "Is Rex still available?"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestContactFormEmail_OmitsEmptyPhone(t *testing.T) {
	_, html, err := ContactFormEmail(ContactData{
		Name:    "Jane",
		Email:   "jane@example.com",
		Message: "Hello",
	})
	if err != nil {
		t.Fatalf("ContactFormEmail: %v", err)
	}
	if strings.Contains(html, "Phone:") {
		t.Error("expected phone row omitted when empty")
	}
}

func TestContactFormEmail_EscapesHTML(t *testing.T) {
	_, html, err := ContactFormEmail(ContactData{
		Name:    "<script>alert(1)</script>",
		Email:   "x@example.com",
		Message: "hi",
	})
	if err != nil {
		t.Fatalf("ContactFormEmail: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("expected script tag escaped")
	}
}

func TestApplicationEmails(t *testing.T) {
	data := ApplicationData{
		ApplicantName: "John Smith",
		DogName:       "Bella",
		Email:         "john@example.com",
		Phone:         "555-0102",
		Address:       "12 Main St",
	}

	subject, html, err := NewApplicationAdminEmail(data)
	if err != nil {
		t.Fatalf("NewApplicationAdminEmail: %v", err)
	}
	if subject != "New Application for Bella" {
		t.Errorf("unexpected admin subject: %s", subject)
	}
	for _, want := range []string{"John Smith", "Bella", "12 Main St"} {
		if !strings.Contains(html, want) {
			t.Errorf("admin html missing %q", want)
		}
	}

	subject, html, err = ApplicationConfirmationEmail(data)
	if err != nil {
		t.Fatalf("ApplicationConfirmationEmail: %v", err)
	}
	if subject != "Application Received for Bella" {
		t.Errorf("unexpected confirmation subject: %s", subject)
	}
	if !strings.Contains(html, "Dear John Smith") {
		t.Error("confirmation html missing salutation")
	}
}

func TestResendSender_Send(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewResendSender(&config.EmailConfig{
		APIKey: "re_test_key",
		From:   "Kennel <noreply@example.com>",
	}, common.NewSilentLogger())
	sender.endpoint = srv.URL

	err := sender.Send(context.Background(), Message{
		To:      "admin@example.com",
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if auth != "Bearer re_test_key" {
		t.Errorf("unexpected auth header: %s", auth)
	}
	if got.From != "Kennel <noreply@example.com>" || got.To != "admin@example.com" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestResendSender_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := NewResendSender(&config.EmailConfig{APIKey: "bad"}, common.NewSilentLogger())
	sender.endpoint = srv.URL

	err := sender.Send(context.Background(), Message{To: "x@example.com", Subject: "s"})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestResendSender_Unconfigured(t *testing.T) {
	sender := NewResendSender(&config.EmailConfig{}, common.NewSilentLogger())
	if err := sender.Send(context.Background(), Message{To: "x@example.com"}); err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}
