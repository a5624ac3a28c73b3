package notification

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/m04kA/recentro-booking/internal/domain"
)

const subjectPrefix = "Confirmação de Agendamento - "

var emailTemplate = template.Must(template.New("confirmation").Parse(
	`Olá, {{.FullName}}!

Seu agendamento para o {{.EventName}} está confirmado.

Data: {{.Date}}
{{range .Slots}}
  {{.Time}} - {{.AgencyName}}{{end}}

Protocolo: {{.SubmissionID}}

Em caso de dúvidas, responda a este e-mail.
`))

type emailData struct {
	FullName     string
	EventName    string
	Date         string
	SubmissionID string
	Slots        []emailSlot
}

type emailSlot struct {
	Time       string
	AgencyName string
}

// ConfirmedEvent событие appointment.confirmed
type ConfirmedEvent struct {
	SubmissionID string      `json:"submissionId"`
	EventName    string      `json:"eventName"`
	Date         string      `json:"date"`
	FlowType     string      `json:"flowType"`
	FullName     string      `json:"fullName"`
	Email        string      `json:"email"`
	Slots        []EventSlot `json:"slots"`
	ConfirmedAt  time.Time   `json:"confirmedAt"`
}

// EventSlot слот в событии
type EventSlot struct {
	BookingID string `json:"bookingId"`
	Agency    string `json:"agency"`
	Time      string `json:"time"`
}

func renderEmail(eventName string, c *domain.Confirmation, agencies AgencyCatalog) (string, string, error) {
	data := emailData{
		FullName:     c.Applicant.FullName,
		EventName:    eventName,
		Date:         c.Date.Format(domain.DisplayDateFormat),
		SubmissionID: c.SubmissionID,
		Slots:        make([]emailSlot, 0, len(c.Slots)),
	}
	for _, s := range c.Slots {
		data.Slots = append(data.Slots, emailSlot{
			Time:       s.Time.String(),
			AgencyName: agencies.Name(s.Agency),
		})
	}

	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render confirmation email: %w", err)
	}

	return subjectPrefix + eventName, body.String(), nil
}

func newConfirmedEvent(eventName string, c *domain.Confirmation, now time.Time) ConfirmedEvent {
	event := ConfirmedEvent{
		SubmissionID: c.SubmissionID,
		EventName:    eventName,
		Date:         c.Date.String(),
		FlowType:     string(c.FlowType),
		FullName:     c.Applicant.FullName,
		Email:        c.Applicant.Email,
		Slots:        make([]EventSlot, 0, len(c.Slots)),
		ConfirmedAt:  now,
	}
	for _, s := range c.Slots {
		event.Slots = append(event.Slots, EventSlot{
			BookingID: s.BookingID,
			Agency:    string(s.Agency),
			Time:      s.Time.String(),
		})
	}
	return event
}
