package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"spa-booking-server/config"
	"spa-booking-server/database"
	"spa-booking-server/models"
)

// PushService delivers push notifications via the Expo Push API and records
// them in the in-app notification feed
type PushService struct {
	client *http.Client
}

// NewPushService creates a new push service
func NewPushService() *PushService {
	return &PushService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendToUser creates a notification record and pushes it to every active
// token the user has registered. Token-level delivery failures are logged
// and do not fail the call.
func (ps *PushService) SendToUser(userID uint, title, body, notificationType string, data map[string]interface{}) error {
	// Get user's push tokens
	var tokens []models.PushToken
	err := database.DB.Where("user_id = ? AND active = ?", userID, true).Find(&tokens).Error
	if err != nil {
		log.Printf("❌ Error fetching push tokens for user %d: %v", userID, err)
		return err
	}

	// Create notification record
	dataJSON, _ := json.Marshal(data)
	notification := models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Type:   notificationType,
		Data:   string(dataJSON),
		Read:   false,
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("❌ Error creating notification record for user %d: %v", userID, err)
		return err
	}

	if len(tokens) == 0 {
		log.Printf("⚠️ No push tokens found for user %d, notification stored in-app only", userID)
		return nil
	}

	// Send push notifications
	successCount := 0
	for _, token := range tokens {
		if err := ps.sendExpoPush(token.Token, title, body, data); err != nil {
			log.Printf("❌ Error sending push notification to token %s: %v", token.Token, err)
		} else {
			successCount++
		}
	}

	log.Printf("📊 Push summary: %d/%d sent successfully to user %d", successCount, len(tokens), userID)
	return nil
}

// sendExpoPush sends a notification via the Expo Push API
func (ps *PushService) sendExpoPush(token, title, body string, data map[string]interface{}) error {
	payload := map[string]interface{}{
		"to":        token,
		"title":     title,
		"body":      body,
		"data":      data,
		"sound":     "default",
		"priority":  "high",
		"channelId": "booking_updates",
	}

	bodyBytes, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", config.AppConfig.Push.ExpoURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := ps.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Expo push send failed: %s - %s", resp.Status, string(respBody))
		return fmt.Errorf("expo push failed: %s", resp.Status)
	}

	return nil
}
