package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  Client@Example.COM ": "client@example.com",
		"client@example.com":    "client@example.com",
		"\tUPPER@CASE.NET\n":    "upper@case.net",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
