package main

import (
	"strings"
	"testing"
)

func TestEscapeWifiString(t *testing.T) {
	got := EscapeWifiString(`a;b,c:d"e\f`)
	want := `a\;b\,c\:d\"e\\f`
	if got != want {
		t.Errorf("EscapeWifiString() = %q, want %q", got, want)
	}
}

func TestWifiURI(t *testing.T) {
	tests := []struct {
		ssid, password, security string
		expected                 string
	}{
		{"Home", "secret", "WPA1 WPA2", "WIFI:S:Home;T:WPA;P:secret;;"},
		{"Cafe", "", "", "WIFI:S:Cafe;T:nopass;;"},
		{"Cafe", "ignored", "--", "WIFI:S:Cafe;T:nopass;;"},
		{"Old;Net", "k", "WEP", `WIFI:S:Old\;Net;T:WEP;P:k;;`},
		{"New", "p", "WPA3 SAE", "WIFI:S:New;T:WPA;P:p;;"},
	}

	for _, tt := range tests {
		if got := WifiURI(tt.ssid, tt.password, tt.security); got != tt.expected {
			t.Errorf("WifiURI(%q, %q, %q) = %q, want %q", tt.ssid, tt.password, tt.security, got, tt.expected)
		}
	}
}

func TestGenerateWifiQRCode(t *testing.T) {
	code, err := GenerateWifiQRCode("Leapfrog1", "secret", "WPA2")
	if err != nil {
		t.Fatalf("GenerateWifiQRCode() failed: %v", err)
	}
	if strings.TrimSpace(code) == "" {
		t.Fatal("GenerateWifiQRCode() returned an empty code")
	}
}
