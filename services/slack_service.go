package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"spa-booking-server/config"
)

// SlackService posts booking summaries to the team channel via an incoming
// webhook. All sends are best-effort: callers log the returned error and move
// on, a failed alert never rolls back a booking.
type SlackService struct {
	client *http.Client
}

// NewSlackService creates a new Slack service
func NewSlackService() *SlackService {
	return &SlackService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// BookingAlert is the structured summary posted to the team channel
type BookingAlert struct {
	Type          string   `json:"type"` // slot_validated, booking_created, slots_proposed, booking_expired
	BookingID     string   `json:"booking_id"`
	BookingNumber int64    `json:"booking_number"`
	ClientName    string   `json:"client_name"`
	VenueName     string   `json:"venue_name"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	TherapistName string   `json:"therapist_name,omitempty"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency"`
	Treatments    []string `json:"treatments,omitempty"`
}

// SendBookingAlert posts a booking alert to the configured webhook
func (ss *SlackService) SendBookingAlert(alert BookingAlert) error {
	webhookURL := config.AppConfig.Slack.WebhookURL
	if webhookURL == "" {
		log.Printf("⚠️ Slack webhook not configured, skipping %s alert for booking #%d", alert.Type, alert.BookingNumber)
		return nil
	}

	if alert.Currency == "" {
		alert.Currency = config.AppConfig.Booking.DefaultCurrency
	}

	payload := map[string]interface{}{
		"channel": config.AppConfig.Slack.Channel,
		"text":    formatAlertText(alert),
	}

	bodyBytes, _ := json.Marshal(payload)

	resp, err := ss.client.Post(webhookURL, "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack webhook failed: %s", resp.Status)
	}

	return nil
}

// SendText posts a free-form message to the configured webhook. Used for
// digest-style summaries that do not fit the per-booking alert shape.
func (ss *SlackService) SendText(text string) error {
	webhookURL := config.AppConfig.Slack.WebhookURL
	if webhookURL == "" {
		log.Printf("⚠️ Slack webhook not configured, skipping message")
		return nil
	}

	payload := map[string]interface{}{
		"channel": config.AppConfig.Slack.Channel,
		"text":    text,
	}
	bodyBytes, _ := json.Marshal(payload)

	resp, err := ss.client.Post(webhookURL, "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack webhook failed: %s", resp.Status)
	}
	return nil
}

// formatAlertText renders the alert as a single Slack message line block
func formatAlertText(alert BookingAlert) string {
	var b strings.Builder

	switch alert.Type {
	case "slot_validated":
		fmt.Fprintf(&b, "✅ Booking #%d confirmed", alert.BookingNumber)
	case "slots_proposed":
		fmt.Fprintf(&b, "📅 Booking #%d awaiting therapist selection", alert.BookingNumber)
	case "booking_expired":
		fmt.Fprintf(&b, "⏰ Booking #%d expired without a claim", alert.BookingNumber)
	default:
		fmt.Fprintf(&b, "🆕 Booking #%d created", alert.BookingNumber)
	}

	fmt.Fprintf(&b, "\n• Client: %s", alert.ClientName)
	fmt.Fprintf(&b, "\n• Venue: %s", alert.VenueName)
	fmt.Fprintf(&b, "\n• When: %s %s", alert.Date, alert.Time)
	if alert.TherapistName != "" {
		fmt.Fprintf(&b, "\n• Therapist: %s", alert.TherapistName)
	}
	fmt.Fprintf(&b, "\n• Price: %.2f %s", alert.Price, alert.Currency)
	if len(alert.Treatments) > 0 {
		fmt.Fprintf(&b, "\n• Treatments: %s", strings.Join(alert.Treatments, ", "))
	}

	return b.String()
}
