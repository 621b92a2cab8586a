package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// ContactData fills the contact form notification sent to the admin.
type ContactData struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ApplicationData fills the adoption application emails.
type ApplicationData struct {
	ApplicantName string
	DogName       string
	Email         string
	Phone         string
	Address       string
}

var emailTemplates = template.Must(template.New("email").Parse(`
{{define "layout_open"}}<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; border-radius: 8px; padding: 32px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">{{end}}
{{define "layout_close"}}</div>
</body>
</html>{{end}}

{{define "contact"}}{{template "layout_open"}}
    <h1 style="color: #333; margin-top: 0;">New Contact Form Message</h1>
    <div style="background-color: #f9f9f9; border-radius: 6px; padding: 20px; margin: 24px 0;">
      <h2 style="color: #333; margin-top: 0; font-size: 18px;">Contact Details</h2>
      <table style="width: 100%; border-collapse: collapse;">
        <tr>
          <td style="padding: 8px 0; color: #666; width: 80px;">Name:</td>
          <td style="padding: 8px 0; color: #333; font-weight: 500;">{{.Name}}</td>
        </tr>
        <tr>
          <td style="padding: 8px 0; color: #666;">Email:</td>
          <td style="padding: 8px 0; color: #333;"><a href="mailto:{{.Email}}" style="color: #2563eb;">{{.Email}}</a></td>
        </tr>
        {{if .Phone}}<tr>
          <td style="padding: 8px 0; color: #666;">Phone:</td>
          <td style="padding: 8px 0; color: #333;"><a href="tel:{{.Phone}}" style="color: #2563eb;">{{.Phone}}</a></td>
        </tr>{{end}}
      </table>
    </div>
    <div style="margin: 24px 0;">
      <h2 style="color: #333; margin-top: 0; font-size: 18px;">Message</h2>
      <p style="color: #333; font-size: 16px; line-height: 1.6; white-space: pre-wrap;">{{.Message}}</p>
    </div>
    <hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;">
    <p style="color: #999; font-size: 12px; margin-bottom: 0;">
      Reply directly to this email to respond to {{.Name}}.
    </p>
{{template "layout_close"}}{{end}}

{{define "application_admin"}}{{template "layout_open"}}
    <h1 style="color: #333; margin-top: 0;">New Adoption Application</h1>
    <p style="color: #666; font-size: 16px;">A new application has been submitted for <strong>{{.DogName}}</strong>.</p>
    <div style="background-color: #f9f9f9; border-radius: 6px; padding: 20px; margin: 24px 0;">
      <h2 style="color: #333; margin-top: 0; font-size: 18px;">Applicant Details</h2>
      <table style="width: 100%; border-collapse: collapse;">
        <tr>
          <td style="padding: 8px 0; color: #666; width: 120px;">Name:</td>
          <td style="padding: 8px 0; color: #333; font-weight: 500;">{{.ApplicantName}}</td>
        </tr>
        <tr>
          <td style="padding: 8px 0; color: #666;">Email:</td>
          <td style="padding: 8px 0; color: #333;"><a href="mailto:{{.Email}}" style="color: #2563eb;">{{.Email}}</a></td>
        </tr>
        <tr>
          <td style="padding: 8px 0; color: #666;">Phone:</td>
          <td style="padding: 8px 0; color: #333;"><a href="tel:{{.Phone}}" style="color: #2563eb;">{{.Phone}}</a></td>
        </tr>
        {{if .Address}}<tr>
          <td style="padding: 8px 0; color: #666; vertical-align: top;">Address:</td>
          <td style="padding: 8px 0; color: #333;">{{.Address}}</td>
        </tr>{{end}}
      </table>
    </div>
    <p style="color: #666; font-size: 14px; margin-bottom: 0;">
      View and manage this application in the <a href="https://sekhondogkennel.com/admin/applications" style="color: #2563eb;">admin dashboard</a>.
    </p>
{{template "layout_close"}}{{end}}

{{define "application_confirmation"}}{{template "layout_open"}}
    <h1 style="color: #333; margin-top: 0;">Thank You for Your Application!</h1>
    <p style="color: #666; font-size: 16px;">Dear {{.ApplicantName}},</p>
    <p style="color: #666; font-size: 16px;">
      We've received your adoption application for <strong>{{.DogName}}</strong>. Thank you for your interest in giving one of our dogs a loving home!
    </p>
    <div style="background-color: #f0fdf4; border: 1px solid #bbf7d0; border-radius: 6px; padding: 16px; margin: 24px 0;">
      <p style="color: #166534; margin: 0; font-size: 14px;">
        <strong>What's next?</strong><br>
        Our team will review your application and get back to you within 2-3 business days. We may reach out for additional information or to schedule a meet-and-greet with {{.DogName}}.
      </p>
    </div>
    <p style="color: #666; font-size: 16px;">
      If you have any questions in the meantime, feel free to contact us.
    </p>
    <p style="color: #666; font-size: 16px; margin-bottom: 0;">
      Best regards,<br>
      <strong>Sekhon Dog Kennel</strong>
    </p>
{{template "layout_close"}}{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

// ContactFormEmail builds the admin notification for a contact message.
func ContactFormEmail(data ContactData) (subject, html string, err error) {
	html, err = render("contact", data)
	return fmt.Sprintf("Contact Form: Message from %s", data.Name), html, err
}

// NewApplicationAdminEmail builds the admin notification for a new
// adoption application.
func NewApplicationAdminEmail(data ApplicationData) (subject, html string, err error) {
	html, err = render("application_admin", data)
	return fmt.Sprintf("New Application for %s", data.DogName), html, err
}

// ApplicationConfirmationEmail builds the receipt sent to the applicant.
func ApplicationConfirmationEmail(data ApplicationData) (subject, html string, err error) {
	html, err = render("application_confirmation", data)
	return fmt.Sprintf("Application Received for %s", data.DogName), html, err
}
