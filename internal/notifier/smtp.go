package notifier

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/config"
)

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) Configured() bool {
	return m.host != ""
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if !m.Configured() {
		return fmt.Errorf("smtp mailer is not configured")
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
}

func (m *SMTPMailer) AchievementApproved(email, name, title string) error {
	subject := "Achievement Approved!"
	body := fmt.Sprintf(
		"Congratulations, %s!\n\nYour achievement %q has been approved. It is now visible in your portfolio and counts towards your leaderboard ranking.\n\nBest regards,\nStudent Achievements Team",
		name, title)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) AchievementRejected(email, name, title, reason string) error {
	subject := "Achievement Update - Review Required"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour achievement %q requires updates before it can be approved.\n\nFeedback: %s\n\nPlease review the feedback and submit an updated version.\n\nBest regards,\nStudent Achievements Team",
		name, title, reason)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) AchievementSubmitted(email, facultyName, studentName, title string) error {
	subject := "New Achievement Pending Review"
	body := fmt.Sprintf(
		"Hello %s,\n\nA new achievement has been submitted and requires your review:\n\nStudent: %s\nTitle: %s\n\nBest regards,\nStudent Achievements Team",
		facultyName, studentName, title)
	return m.send(email, subject, body)
}
