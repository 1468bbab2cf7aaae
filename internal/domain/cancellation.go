package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	defaultRequesterEmail = "[Your Email]"
	defaultRequesterName  = "[Your Name]"
	gmailComposeURL       = "https://mail.google.com/mail/"
)

// CancellationRequest is the email a human sends to the vendor before
// marking a subscription cancelled.
type CancellationRequest struct {
	Subject string
	Body    string
}

func NewCancellationRequest(sub Subscription, requester string) CancellationRequest {
	email := strings.TrimSpace(requester)
	name := email
	if email == "" {
		email = defaultRequesterEmail
		name = defaultRequesterName
	}

	subject := fmt.Sprintf("Cancellation Request: %s Subscription", sub.Name)
	body := strings.Join([]string{
		"To whom it may concern,",
		"",
		fmt.Sprintf("I am writing to formally request the cancellation of our subscription to %s, effective immediately.", sub.Name),
		"",
		"Please confirm when this cancellation has been processed and ensure no further charges are applied to the account associated with this email address.",
		"",
		fmt.Sprintf("Service: %s", sub.Name),
		fmt.Sprintf("Account Email: %s", email),
		"",
		"Thank you,",
		name,
	}, "\n")

	return CancellationRequest{Subject: subject, Body: body}
}

func (r CancellationRequest) Text() string {
	return r.Subject + "\n\n" + r.Body
}

func (r CancellationRequest) GmailURL() string {
	query := url.Values{}
	query.Set("view", "cm")
	query.Set("fs", "1")
	query.Set("su", r.Subject)
	query.Set("body", r.Body)
	return gmailComposeURL + "?" + query.Encode()
}
