// Package email composes the immunization report message and delivers it
// over SMTP. Every Send and TestConnection dials a fresh connection; none
// is reused across calls.
package email

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"immunization_reporter/internal/domain/report"
	"immunization_reporter/internal/domain/schoolyear"
	"immunization_reporter/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

type Sender struct {
	host       string
	port       int
	useTLS     bool
	useAuth    bool
	username   string
	password   string
	from       string
	recipients []string
	log        *logrus.Entry
	now        func() time.Time
}

func NewSender(cfg *config.AppConfig, log *logrus.Entry) *Sender {
	return &Sender{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		useTLS:     cfg.SMTPUseTLS,
		useAuth:    cfg.SMTPUseAuth,
		username:   cfg.SMTPUsername,
		password:   cfg.SMTPPassword,
		from:       cfg.FromEmail,
		recipients: cfg.Recipients,
		log:        log,
		now:        time.Now,
	}
}

// Send composes and transmits the report email. Transport failures are
// absorbed into the returned error; nothing propagates past this method.
func (s *Sender) Send(ctx context.Context, rs *report.ResultSet, year schoolyear.Year) error {
	msg, err := s.Compose(rs, year)
	if err != nil {
		s.log.Errorf("error composing report email: %v", err)
		return fmt.Errorf("composing report email: %w", err)
	}

	client, err := s.newClient()
	if err != nil {
		s.log.Errorf("error creating smtp client: %v", err)
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.log.Errorf("error sending report email: %v", err)
		return fmt.Errorf("sending report email: %w", err)
	}

	s.log.Infof("email sent successfully to %d recipients", len(s.recipients))
	return nil
}

// TestConnection runs the same dial, STARTTLS upgrade, and authentication
// sequence as Send without composing or transmitting a message.
func (s *Sender) TestConnection(ctx context.Context) error {
	client, err := s.newClient()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp connection failed: %w", err)
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("closing smtp connection: %w", err)
	}
	return nil
}

// Compose builds the report message: templated subject and body, plus the
// CSV attachment unless the result set is empty.
func (s *Sender) Compose(rs *report.ResultSet, year schoolyear.Year) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid from address %s: %w", s.from, err)
	}
	if err := msg.To(s.recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipient list: %w", err)
	}
	msg.Subject(fmt.Sprintf("Immunization Report - %s", year))
	msg.SetBodyString(mail.TypeTextPlain, s.body(rs, year))

	if rs.Empty() {
		s.log.Warn("no data provided for CSV attachment, sending report without one")
		return msg, nil
	}

	data, err := rs.CSV()
	if err != nil {
		return nil, fmt.Errorf("serializing report csv: %w", err)
	}
	name := AttachmentName(year, s.now())
	if err := msg.AttachReader(name, bytes.NewReader(data), mail.WithFileContentType(mail.ContentType("text/csv"))); err != nil {
		return nil, fmt.Errorf("attaching %s: %w", name, err)
	}
	s.log.Infof("CSV attachment added: %s (%d records)", name, rs.Len())
	return msg, nil
}

func (s *Sender) newClient() (*mail.Client, error) {
	policy := mail.NoTLS
	if s.useTLS {
		policy = mail.TLSMandatory
	}
	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTLSPolicy(policy),
	}
	if s.useAuth {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.username),
			mail.WithPassword(s.password),
		)
	}
	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return client, nil
}

// AttachmentName is the report filename: school-year string plus the
// composition date, not the school-year start.
func AttachmentName(year schoolyear.Year, at time.Time) string {
	return fmt.Sprintf("Immunization_Report_%s_%s.csv", year, at.Format("20060102"))
}

func (s *Sender) body(rs *report.ResultSet, year schoolyear.Year) string {
	return fmt.Sprintf(`Dear Staff,

Please find attached the Immunization Report for school year %s.

Report Details:
- Generated: %s
- Records: %d
- School Year: %s
- Format: CSV (Comma-Separated Values)

This report contains active student roster data for immunization tracking, excluding students without an SSID and students enrolled in program 696.

The CSV file can be opened in Excel, Google Sheets, or any spreadsheet application for processing.

Please process this data according to our immunization compliance procedures via the Immunization Portal.

https://your-immunization-portal.gov/surveys/

Best regards,
Immunization Automation System`,
		year, s.now().Format("2006-01-02 15:04:05"), rs.Len(), year)
}
