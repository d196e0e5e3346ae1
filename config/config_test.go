package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("DEFAULT_CURRENCY")
	os.Unsetenv("EXPO_PUSH_URL")
	Load()

	if AppConfig.Booking.DefaultCurrency != "EUR" {
		t.Errorf("DefaultCurrency = %q, want EUR", AppConfig.Booking.DefaultCurrency)
	}
	if AppConfig.Push.ExpoURL == "" {
		t.Error("Expo push URL should have a default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_CURRENCY", "MAD")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.example/T000/B000")
	Load()

	if AppConfig.Booking.DefaultCurrency != "MAD" {
		t.Errorf("DefaultCurrency = %q, want MAD", AppConfig.Booking.DefaultCurrency)
	}
	if AppConfig.Slack.WebhookURL != "https://hooks.slack.example/T000/B000" {
		t.Errorf("Slack webhook not picked up: %q", AppConfig.Slack.WebhookURL)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	if got := getEnvAsInt("SOME_INT", 7); got != 42 {
		t.Errorf("getEnvAsInt = %d, want 42", got)
	}
	t.Setenv("SOME_INT", "not-a-number")
	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt fallback = %d, want 7", got)
	}
	if got := getEnvAsInt("UNSET_INT_KEY", 9); got != 9 {
		t.Errorf("getEnvAsInt unset = %d, want 9", got)
	}
}
