package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// EmailSender is the delivery collaborator contract. A failed send must be
// reported synchronously so the caller can roll the invitation back.
type EmailSender interface {
	SendInvitation(to, inviterName, projectName, token string, expiresInDays int) error
}

// EmailService delivers invitation emails through the Resend HTTP API.
type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
	client      *http.Client
}

func NewEmailService(apiKey, fromEmail, frontendURL string) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EmailService) SendInvitation(to, inviterName, projectName, token string, expiresInDays int) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	inviteLink := fmt.Sprintf("%s/invitations/accept?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4f46e5; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background-color: #f9fafb; padding: 30px; border-radius: 0 0 8px 8px; }
        .button { display: inline-block; padding: 12px 30px; background-color: #4f46e5; color: white; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .footer { text-align: center; margin-top: 20px; color: #6b7280; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Project Invitation</h1>
        </div>
        <div class="content">
            <p>Hi there,</p>
            <p><strong>%s</strong> has invited you to join the project <strong>"%s"</strong> on Eventura.</p>
            <p>Click the button below to accept the invitation and start collaborating:</p>
            <div style="text-align: center;">
                <a href="%s" class="button">Accept Invitation</a>
            </div>
            <p style="color: #6b7280; font-size: 14px;">Or copy and paste this link into your browser:</p>
            <p style="word-break: break-all; color: #4f46e5;">%s</p>
            <p style="margin-top: 30px; color: #ef4444; font-size: 14px;">
                This invitation will expire in %d days.
            </p>
        </div>
        <div class="footer">
            <p>If you didn't expect this invitation, you can safely ignore this email.</p>
        </div>
    </div>
</body>
</html>
	`, inviterName, projectName, inviteLink, inviteLink, expiresInDays)

	payload := map[string]interface{}{
		"from":    fmt.Sprintf("Eventura <%s>", s.fromEmail),
		"to":      []string{to},
		"subject": fmt.Sprintf("You're invited to join \"%s\" on Eventura", projectName),
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}

	return nil
}
