package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/meditriage/triage-api/internal/config"
	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/pkg/logger"
)

// Service sends operational notifications to clinical staff. Delivery is
// best effort; callers log failures and carry on.
type Service interface {
	SendAssignmentNotification(to string, doctor *model.Doctor, patient *model.Patient, justification string) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg config.SMTPConfig, log *logger.Logger) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

func (s *service) SendAssignmentNotification(to string, doctor *model.Doctor, patient *model.Patient, justification string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New patient assignment")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>New Patient Assignment</h2>
		<p>Dr. %s, a patient has been assigned to you.</p>
		<ul>
			<li><strong>Patient:</strong> %s</li>
			<li><strong>Chief complaint:</strong> %s</li>
			<li><strong>Triage level:</strong> %d</li>
			<li><strong>Reason:</strong> %s</li>
		</ul>
	`, doctor.Name, patient.Name, patient.ChiefComplaint, patient.TriageLevel, justification))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send assignment notification: %w", err)
	}

	s.logger.Info("assignment notification sent", "to", to, "patient_id", patient.ID)
	return nil
}
