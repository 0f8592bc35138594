package mock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wifinm/nmclient/nm"
)

// Fixture connection UUIDs.
const (
	EthernetUUID = "1234"
	WifiUUID     = "5678"
)

// Version is the tool version reported by the fixtures.
const Version = "1.22.10"

// Executor answers nmcli invocations from canned output without touching
// the system. Mutating commands always succeed and change nothing, so every
// read returns the same data no matter what ran before it.
type Executor struct {
	// Responses maps a space-joined argument list to its result. Entries
	// here take precedence over the built-in mutating command handlers.
	Responses map[string]nm.Result

	mu    sync.Mutex
	calls [][]string
}

func ok(output string) nm.Result {
	return nm.Result{ExitCode: 0, Output: output}
}

func scanOutput() string {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		security := ""
		if i%2 == 0 {
			security = "WPA2"
		}
		fmt.Fprintf(&b, "Leapfrog%d:%d:%s\n", i+1, (20-i)*5, security)
	}
	return b.String()
}

const ethernetDetails = `connection.id:Wired connection 1
connection.uuid:1234
connection.type:802-3-ethernet
connection.interface-name:eth0
802-3-ethernet.mac-address:12\:34\:56\:WI\:RE\:D0\:00
ipv4.method:manual
ipv4.dns:1.1.1.1 2.2.2.2
ipv4.addresses:{ ip = 127.0.0.1/24, gw = 192.168.0.1 }
ipv4.routes:{ dst = 192.168.0.1/24, nh = 0.0.0.0, mt = 0 }
`

const wifiDetails = `connection.id:Leapfrog2
connection.uuid:5678
connection.type:802-11-wireless
connection.interface-name:wlan0
802-11-wireless.ssid:Leapfrog2
802-11-wireless.mac-address:12\:34\:56\:WI\:RE\:LE\:SS
802-11-wireless-security.key-mgmt:wpa-psk
ipv4.method:auto
ipv4.dns:8.8.8.8 4.4.4.4
ipv4.addresses:{ ip = 127.0.0.2/24, gw = 192.168.0.1 }
ipv4.routes:{ dst = 192.168.0.1/24, nh = 0.0.0.0, mt = 0 }
`

// New creates an Executor loaded with the default fixtures: an ethernet
// connection "1234" on eth0, a wifi connection "5678" to Leapfrog2 on
// wlan0, and twenty visible networks Leapfrog1..Leapfrog20.
func New() *Executor {
	return &Executor{
		Responses: map[string]nm.Result{
			"--version":       ok("nmcli tool, version " + Version + "\n"),
			"dev wifi rescan": ok(""),
			"-t -f SSID,SIGNAL,SECURITY dev wifi list": ok(scanOutput()),
			"-t -f TYPE,DEVICE,CON-UUID dev":           ok("ethernet:eth0:1234\nwifi:wlan0:5678\nloopback:lo:\n"),
			"-t -f DEVICE,STATE device status":         ok("eth0:connected\nwlan0:connected\nlo:unmanaged\n"),
			"-t -f TYPE dev":                           ok("ethernet\nwifi\nloopback\n"),
			"-t -f IP4.ADDRESS d show eth0":            ok("IP4.ADDRESS[1]:127.0.0.1/24\n"),
			"-t -f IP4.ADDRESS d show wlan0":           ok("IP4.ADDRESS[1]:127.0.0.2/24\n"),
			"-t -f IP4.ADDRESS d show lo":              ok("IP4.ADDRESS[1]:127.0.0.1/8\n"),
			"-t -f NAME,UUID,TYPE c":                   ok("Wired connection 1:1234:802-3-ethernet\nLeapfrog2:5678:802-11-wireless\n"),
			"-t -f NAME,DEVICE,TYPE c show --active":   ok("Wired connection 1:eth0:802-3-ethernet\nLeapfrog2:wlan0:802-11-wireless\n"),
			"-t con show " + EthernetUUID:              ok(ethernetDetails),
			"-t con show " + WifiUUID:                  ok(wifiDetails),
		},
	}
}

// Run implements nm.Executor.
func (e *Executor) Run(args ...string) (nm.Result, error) {
	e.mu.Lock()
	e.calls = append(e.calls, append([]string(nil), args...))
	e.mu.Unlock()

	if r, found := e.Responses[nm.CommandString(args)]; found {
		return r, nil
	}
	return mutate(args), nil
}

// mutate acknowledges commands that would change system state.
func mutate(args []string) nm.Result {
	switch {
	case hasPrefix(args, "con", "delete", "uuid") && len(args) == 4:
		return ok(fmt.Sprintf("Connection (%s) successfully deleted.\n", args[3]))
	case hasPrefix(args, "-t", "con", "modify") && len(args) > 4:
		return ok("")
	case hasPrefix(args, "dev", "disconnect") && len(args) == 3:
		return ok(fmt.Sprintf("Device '%s' successfully disconnected.\n", args[2]))
	case hasPrefix(args, "dev", "wifi", "connect") && len(args) >= 4:
		return ok(fmt.Sprintf("Device 'wlan0' successfully activated with '%s'.\n", WifiUUID))
	case hasPrefix(args, "radio", "wifi") && len(args) == 3:
		return ok("")
	case hasPrefix(args, "-t", "con", "show") && len(args) == 4:
		return nm.Result{ExitCode: 10, Output: fmt.Sprintf("Error: %s - no such connection profile.\n", args[3])}
	}
	return nm.Result{ExitCode: 2, Output: fmt.Sprintf("Error: argument '%s' not understood.\n", nm.CommandString(args))}
}

func hasPrefix(args []string, prefix ...string) bool {
	if len(args) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}

// Calls returns every argument list seen so far, oldest first.
func (e *Executor) Calls() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]string(nil), e.calls...)
}
