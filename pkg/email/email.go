package email

import (
	"context"
	"fmt"

	"apnastay/pkg/client"
	"apnastay/pkg/errors"
)

// Sender delivers transactional e-mail through a Brevo-compatible HTTP API.
type Sender struct {
	http      *client.HttpClient
	apiKey    string
	fromName  string
	fromEmail string
}

func New(baseURL, apiKey, fromName, fromEmail string) *Sender {
	return &Sender{
		http:      client.NewHttpClient(baseURL),
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

type party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      party   `json:"sender"`
	To          []party `json:"to"`
	Subject     string  `json:"subject"`
	HTMLContent string  `json:"htmlContent"`
}

func (s *Sender) Send(ctx context.Context, toName, toEmail, subject, htmlBody string) error {
	if toEmail == "" {
		return errors.InvalidInput("recipient e-mail address is required")
	}

	req := sendRequest{
		Sender:      party{Name: s.fromName, Email: s.fromEmail},
		To:          []party{{Name: toName, Email: toEmail}},
		Subject:     subject,
		HTMLContent: htmlBody,
	}

	resp, err := s.http.POST(ctx, "/v3/smtp/email", req, map[string]string{
		"api-key": s.apiKey,
	})
	if err != nil {
		return errors.Unavailable("e-mail provider", err)
	}

	if resp.StatusCode >= 400 {
		return errors.Internal(
			fmt.Sprintf("e-mail provider rejected message (status %d)", resp.StatusCode), nil)
	}

	return nil
}
