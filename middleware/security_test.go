package middleware

import (
	"strings"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	valid := []string{
		"Password1",
		"aB3defgh",
		"LongEnoughPassw0rd",
	}
	for _, password := range valid {
		t.Run("accepts_"+password, func(t *testing.T) {
			ok, errs := ValidatePasswordStrength(password)
			if !ok {
				t.Errorf("expected %q to be accepted, got %v", password, errs)
			}
		})
	}

	invalid := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"too short", "Ab1", "at least 8 characters"},
		{"no uppercase", "password1", "uppercase"},
		{"no lowercase", "PASSWORD1", "lowercase"},
		{"no digit", "Passwordx", "digit"},
		{"too long", strings.Repeat("Aa1", 50), "less than 128"},
	}
	for _, tc := range invalid {
		t.Run("rejects_"+tc.name, func(t *testing.T) {
			ok, errs := ValidatePasswordStrength(tc.password)
			if ok {
				t.Fatalf("expected %q to be rejected", tc.password)
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tc.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v missing %q", errs, tc.wantErr)
			}
		})
	}
}
