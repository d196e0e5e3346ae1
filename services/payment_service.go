package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"spa-booking-server/config"
)

// PaymentService asks the external payment provider to send a payment link
// to the client. Fire-and-forget from the booking flow's point of view.
type PaymentService struct {
	client *http.Client
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// PaymentLinkRequest is the dispatcher contract
type PaymentLinkRequest struct {
	BookingID   string   `json:"bookingId"`
	Language    string   `json:"language"`
	Channels    []string `json:"channels"` // sms, email
	ClientPhone string   `json:"clientPhone,omitempty"`
	ClientEmail string   `json:"clientEmail,omitempty"`
}

// RequestPaymentLink asks the dispatcher to send a payment link for a booking
func (ps *PaymentService) RequestPaymentLink(req PaymentLinkRequest) error {
	dispatcherURL := config.AppConfig.Payment.LinkDispatcherURL
	if dispatcherURL == "" {
		log.Printf("⚠️ Payment link dispatcher not configured, skipping for booking %s", req.BookingID)
		return nil
	}

	if len(req.Channels) == 0 {
		req.Channels = []string{"email"}
	}
	if req.Language == "" {
		req.Language = "en"
	}

	bodyBytes, _ := json.Marshal(req)

	httpReq, err := http.NewRequest("POST", dispatcherURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if config.AppConfig.Payment.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+config.AppConfig.Payment.APIKey)
	}

	resp, err := ps.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("payment link dispatch failed: %s", resp.Status)
	}

	log.Printf("💳 Payment link requested for booking %s via %v", req.BookingID, req.Channels)
	return nil
}
