package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/agent-king/bibliography/internal/models"
)

// Service defines the notification surface exposed to the workflow.
type Service interface {
	NotifySummary(ctx context.Context, added []models.Book) error
}

// Config holds the SMTP settings.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	Recipient string
}

// NewService returns an SMTP notifier, or a no-op when credentials are
// missing.
func NewService(cfg Config) Service {
	if strings.TrimSpace(cfg.User) == "" || strings.TrimSpace(cfg.Password) == "" {
		slog.Debug("Email notifications disabled")
		return noopService{}
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.Recipient == "" {
		cfg.Recipient = cfg.User
	}
	return &smtpService{cfg: cfg}
}

type noopService struct{}

func (noopService) NotifySummary(context.Context, []models.Book) error { return nil }

//go:embed summary.html.tmpl
var summaryHTML string

var summaryTemplate = template.Must(template.New("summary").Parse(summaryHTML))

type group struct {
	Category string
	Books    []models.Book
}

// Subject returns the mail subject for a run that added n books.
func Subject(n int) string {
	if n == 0 {
		return "📚 Agent King : Aucun nouveau livre"
	}
	return fmt.Sprintf("📚 Agent King : %d nouveau(x) livre(s) ajouté(s)", n)
}

// Render builds the HTML digest: categories sorted by name, books within a
// category by original year.
func Render(added []models.Book) (string, error) {
	byCategory := make(map[string][]models.Book)
	for _, b := range added {
		byCategory[b.Category] = append(byCategory[b.Category], b)
	}

	groups := make([]group, 0, len(byCategory))
	for category, books := range byCategory {
		sort.SliceStable(books, func(i, j int) bool { return books[i].YearVO < books[j].YearVO })
		groups = append(groups, group{Category: category, Books: books})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })

	var buf bytes.Buffer
	err := summaryTemplate.Execute(&buf, struct {
		Total  int
		Groups []group
	}{len(added), groups})
	if err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}
	return buf.String(), nil
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

type smtpService struct {
	cfg Config
}

func (s *smtpService) NotifySummary(ctx context.Context, added []models.Book) error {
	html, err := Render(added)
	if err != nil {
		return err
	}
	msg := buildMessage(s.cfg.User, s.cfg.Recipient, Subject(len(added)), html)

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := client.Mail(s.cfg.User); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(s.cfg.Recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	slog.Info("Summary sent", "recipient", s.cfg.Recipient, "books", len(added))
	return client.Quit()
}
