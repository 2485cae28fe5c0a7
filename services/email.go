package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"content-ingestion-service/internal/config"
)

// Notifier sends the completion notice after a document finishes
// processing. Failures are logged by the caller and never fail the job.
type Notifier interface {
	SendProcessedNotice(to, filename string, chunkCount int) error
}

type SMTPNotifier struct {
	config config.Config
}

type processedNoticeData struct {
	FileName   string
	ChunkCount int
}

func NewSMTPNotifier(cfg config.Config) *SMTPNotifier {
	return &SMTPNotifier{config: cfg}
}

func (s *SMTPNotifier) SendProcessedNotice(to, filename string, chunkCount int) error {
	if to == "" {
		return fmt.Errorf("no recipient for processed notice")
	}

	data := processedNoticeData{FileName: filename, ChunkCount: chunkCount}
	htmlBody, textBody, err := renderProcessedNotice(data)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	subject := fmt.Sprintf("Document processed: %s", filename)
	return s.sendEmail(to, subject, htmlBody, textBody)
}

func renderProcessedNotice(data processedNoticeData) (htmlBody, textBody string, err error) {
	htmlT, _ := template.New("html").Parse(getProcessedHTMLTemplate())
	textT, _ := template.New("text").Parse(getProcessedTextTemplate())

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlT.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	if err := textT.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}

func (s *SMTPNotifier) sendEmail(to, subject, htmlBody, textBody string) error {
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	message := fmt.Sprintf(`From: %s
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="boundary123"

--boundary123
Content-Type: text/plain; charset=UTF-8

%s

--boundary123
Content-Type: text/html; charset=UTF-8

%s

--boundary123--`,
		s.config.SMTPFrom,
		to,
		subject,
		textBody,
		htmlBody)

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.SMTPFrom, []string{to}, []byte(message))
}

func getProcessedHTMLTemplate() string {
	return `<html><body>
<h2>Document Processed</h2>
<p>Hello,</p>
<p>Your document <strong>{{.FileName}}</strong> has finished processing.</p>
<ul>
<li>Chunks created: {{.ChunkCount}}</li>
</ul>
<p>The content is now available for conversations.</p>
</body></html>`
}

func getProcessedTextTemplate() string {
	return `Document Processed

Hello,

Your document {{.FileName}} has finished processing.

Chunks created: {{.ChunkCount}}

The content is now available for conversations.`
}
