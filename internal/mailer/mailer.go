package mailer

import (
	"fmt"
	"log"

	"github.com/eventmaster-dev/eventmaster/internal/models"
	"gopkg.in/gomail.v2"
)

// Mailer delivers notification emails over SMTP. A nil Mailer is valid and
// drops every message, so handlers never need to branch on whether mail is
// configured.
type Mailer struct {
	dialer *gomail.Dialer
	sender string
}

func New(host string, port int, username, password, sender string) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// SendAsync fires the message on its own goroutine. Delivery is best-effort:
// failures are logged and never surfaced to the request that triggered them.
func (m *Mailer) SendAsync(to, subject, htmlBody string) {
	if m == nil {
		return
	}
	go func() {
		if err := m.Send(to, subject, htmlBody); err != nil {
			log.Printf("mailer: failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

// SendRegistrationConfirmation notifies an attendee that their registration
// went through.
func (m *Mailer) SendRegistrationConfirmation(attendee *models.User, event *models.Event) {
	if m == nil {
		return
	}
	contactEmail := event.ContactEmail
	contactPhone := event.ContactPhone
	if event.Organizer != nil {
		if contactEmail == "" {
			contactEmail = event.Organizer.Email
		}
		if contactPhone == "" {
			contactPhone = event.Organizer.Phone
		}
	}
	organizerName := ""
	if event.Organizer != nil {
		organizerName = event.Organizer.Username
	}

	subject := fmt.Sprintf("Registration Confirmed: %s", event.Title)
	body := fmt.Sprintf(`
	<h2>Registration Confirmed!</h2>
	<p>Hello %s,</p>
	<p>You have successfully registered for the event:</p>

	<div style="background: #f8f9fa; padding: 1rem; border-radius: 5px; margin: 1rem 0;">
		<h3>%s</h3>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
		<p><strong>Venue:</strong> %s</p>
		<p><strong>Organizer:</strong> %s</p>
	</div>

	<p>We look forward to seeing you at the event!</p>

	<hr>
	<p><small>If you have any questions, please contact the organizer:</small></p>
	<p><small>Email: %s</small></p>
	<p><small>Phone: %s</small></p>
	`, attendee.Username, event.Title, event.Date, event.Time, event.Venue,
		organizerName, contactEmail, contactPhone)

	m.SendAsync(attendee.Email, subject, body)
}

// SendEventCreated notifies an organizer that their event is live.
func (m *Mailer) SendEventCreated(organizer *models.User, event *models.Event) {
	if m == nil {
		return
	}
	subject := fmt.Sprintf("Event Created: %s", event.Title)
	body := fmt.Sprintf(`
	<h2>Event Created Successfully!</h2>
	<p>Hello %s,</p>
	<p>Your event has been created and is now live on our platform:</p>

	<div style="background: #f8f9fa; padding: 1rem; border-radius: 5px; margin: 1rem 0;">
		<h3>%s</h3>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
		<p><strong>Venue:</strong> %s</p>
		<p><strong>Category:</strong> %s</p>
	</div>

	<p>You can manage your event from your dashboard.</p>
	`, organizer.Username, event.Title, event.Date, event.Time, event.Venue, event.Category)

	m.SendAsync(organizer.Email, subject, body)
}
