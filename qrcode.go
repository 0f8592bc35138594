package main

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// EscapeWifiString handles the special character escaping for SSID and Password.
func EscapeWifiString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`;`, `\;`,
		`,`, `\,`,
		`:`, `\:`,
		`"`, `\"`,
	)
	return r.Replace(s)
}

// wifiAuthType maps nmcli's SECURITY column ("WPA1 WPA2", "WEP", "--", "")
// onto the T: field of a WIFI: URI.
func wifiAuthType(security string) string {
	s := strings.ToUpper(security)
	switch {
	case strings.Contains(s, "WPA"), strings.Contains(s, "SAE"), strings.Contains(s, "802.1X"):
		return "WPA"
	case strings.Contains(s, "WEP"):
		return "WEP"
	}
	return "nopass"
}

// WifiURI builds the "WIFI:" connection string understood by phone cameras.
func WifiURI(ssid, password, security string) string {
	var b strings.Builder

	b.WriteString("WIFI:S:")
	b.WriteString(EscapeWifiString(ssid))
	b.WriteString(";")

	switch auth := wifiAuthType(security); auth {
	case "nopass":
		b.WriteString("T:nopass;")
	default:
		b.WriteString("T:" + auth + ";P:")
		b.WriteString(EscapeWifiString(password))
		b.WriteString(";")
	}

	b.WriteString(";")
	return b.String()
}

// GenerateWifiQRCode returns a terminal-friendly QR code for joining ssid.
func GenerateWifiQRCode(ssid, password, security string) (string, error) {
	q, err := qrcode.New(WifiURI(ssid, password, security), qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
