package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/weddingflow/weddingflow/internal/models"
)

const resendEndpoint = "https://api.resend.com/emails"

const defaultFrom = "WeddingFlow <system@weddingflow.com>"

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// SendInvitationEmail delivers the invitation link through the Resend API.
// Without an API key configured the message is written to the log instead,
// which keeps development environments working without a mail account.
// Callers treat delivery as best effort; the invitation stays valid even
// when this fails.
func SendInvitationEmail(member models.TeamMember, inviterName string, companyName string, link string) error {
	team := companyName
	if team == "" {
		team = "Wedding Team"
	}

	subject := fmt.Sprintf("You've been invited to join %s as a %s!", team, member.Role)
	body := fmt.Sprintf(
		"Hi %s,\n\nYou have been invited by %s to join the team as a %s. Click the link below to accept:\n\n%s\n\nBest,\n%s",
		member.Name, inviterName, member.Role, link, inviterName,
	)

	apiKey := os.Getenv("RESEND_API_KEY")

	if apiKey == "" {
		log.Printf("RESEND_API_KEY not set, logging invitation email for %s\nSubject: %s\n%s",
			member.Email, subject, body)
		return nil
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = defaultFrom
	}

	payload := resendRequest{
		From:    from,
		To:      []string{member.Email},
		Subject: subject,
		Text:    body,
	}

	return sendMail(apiKey, payload)
}

func sendMail(apiKey string, payload resendRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	return nil
}
