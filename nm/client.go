package nm

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// radioResetDelay is how long ResetWifiRadio leaves the radio off.
const radioResetDelay = 5 * time.Second

const redacted = "******"

var ipRegex = regexp.MustCompile(`(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)`)

// Required keys of a `con show` dump.
const (
	keyConnectionType = "connection.type"
	keyWirelessSSID   = "802-11-wireless.ssid"
	keyWirelessMAC    = "802-11-wireless.mac-address"
	keyEthernetMAC    = "802-3-ethernet.mac-address"
	keyIPv4Method     = "ipv4.method"
	keyIPv4Addresses  = "ipv4.addresses"
	keyIPv4Gateway    = "ipv4.gateway"
	keyIPv4Routes     = "ipv4.routes"
	keyIPv4DNS        = "ipv4.dns"
)

// Client translates connection management intents into nmcli invocations.
//
// A Client holds no mutable state, but the network stack it drives is
// shared: callers must not issue operations concurrently.
type Client struct {
	exec   Executor
	logger Logger
	sleep  func(time.Duration)
}

// New creates a Client and verifies the tool version. It fails with
// ErrUnsupportedVersion if the tool is older than MinimumVersion.
func New(exec Executor, logger Logger) (*Client, error) {
	if logger == nil {
		logger = discardLogger()
	}
	c := &Client{
		exec:   exec,
		logger: logger,
		sleep:  time.Sleep,
	}
	if err := c.CheckToolVersion(); err != nil {
		logger.Error("nmcli version check failed", "error", err, "minimum", MinimumVersion)
		return nil, err
	}
	return c, nil
}

// redact hides secrets in an argument list before it is logged.
func redact(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		if i > 0 && (args[i-1] == "password" || strings.HasSuffix(args[i-1], ".psk")) {
			a = redacted
		}
		out[i] = a
	}
	return CommandString(out)
}

// send runs one invocation. ok is false if the tool could not be launched.
func (c *Client) send(args ...string) (Result, bool) {
	cmd := redact(args)
	c.logger.Debug("nmcli command", "command", cmd)

	r, err := c.exec.Run(args...)
	if err != nil {
		c.logger.Error("failed to run nmcli", append([]any{"command", cmd}, launchErrorAttrs(err)...)...)
		return Result{}, false
	}
	if !r.OK() {
		c.logger.Warn("nmcli command failed", "command", cmd, "exit_code", r.ExitCode, "output", strings.TrimSpace(r.Output))
	}
	return r, true
}

// launchErrorAttrs describes why the tool could not be started.
func launchErrorAttrs(err error) []any {
	attrs := []any{"error", err}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		attrs = append(attrs, "op", pathErr.Op, "filename", pathErr.Path, "message", pathErr.Err.Error())
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		attrs = append(attrs, "filename", execErr.Name, "message", execErr.Err.Error())
	}
	return attrs
}

func (c *Client) rows(args ...string) [][]string {
	r, ok := c.send(args...)
	if !ok {
		return nil
	}
	return ParseRows(r)
}

// RescanWifi asks the tool to rescan for access points.
func (c *Client) RescanWifi() (Result, bool) {
	return c.send("dev", "wifi", "rescan")
}

// ScanAccessPoints lists visible access points, one per SSID. If
// forceRescan is set a rescan is requested first; its outcome is ignored.
// The order of the result is unspecified.
func (c *Client) ScanAccessPoints(forceRescan bool) []AccessPointRecord {
	if forceRescan {
		c.RescanWifi()
	}

	var aps []AccessPointRecord
	for _, row := range c.rows("-t", "-f", "SSID,SIGNAL,SECURITY", "dev", "wifi", "list") {
		signal, err := strconv.Atoi(strings.TrimSpace(field(row, 1)))
		if err != nil {
			c.logger.Warn("skipping access point with invalid signal", "ssid", field(row, 0), "signal", field(row, 1))
			continue
		}
		aps = append(aps, AccessPointRecord{
			SSID:     field(row, 0),
			Signal:   signal,
			Security: field(row, 2),
		})
	}
	return FilterAccessPoints(aps)
}

// GetStatus reports connectivity for each known interface kind.
func (c *Client) GetStatus() StatusSummary {
	summary := make(StatusSummary)
	for kind, iface := range c.ListInterfaces() {
		active := c.IsDeviceActive(iface.Device)
		status := InterfaceStatus{
			ConnectionUUID: iface.ConnectionUUID,
			Connected:      active,
		}
		if active {
			status.IP = c.InterfaceIP(iface.Device)
		}
		if kind == InterfaceWifi && iface.ConnectionUUID != "" {
			settings, err := c.connectionSettings(iface.ConnectionUUID)
			if err != nil {
				c.logger.Warn("failed to read wifi connection", "uuid", iface.ConnectionUUID, "error", err)
			} else {
				status.SSID = settings[keyWirelessSSID]
			}
		}
		summary[kind] = status
	}
	return summary
}

func normalizeConnectionType(t string) ConnectionType {
	switch {
	case strings.Contains(t, "wireless"):
		return ConnectionWireless
	case strings.Contains(t, "ethernet"):
		return ConnectionWired
	}
	return ConnectionType(t)
}

// ListConfiguredConnections lists every saved connection profile.
func (c *Client) ListConfiguredConnections() []ConnectionRecord {
	var conns []ConnectionRecord
	for _, row := range c.rows("-t", "-f", "NAME,UUID,TYPE", "c") {
		conns = append(conns, ConnectionRecord{
			Name: field(row, 0),
			UUID: field(row, 1),
			Type: normalizeConnectionType(field(row, 2)),
		})
	}
	return conns
}

// DeleteConfiguredConnection deletes a saved connection profile and reports
// whether the tool succeeded.
func (c *Client) DeleteConfiguredConnection(id string) bool {
	r, ok := c.send("con", "delete", "uuid", id)
	if !ok || !r.OK() {
		c.logger.Warn("failed to delete connection", "uuid", id)
		return false
	}
	c.logger.Info("connection deleted", "uuid", id)
	return true
}

func (c *Client) connectionSettings(id string) (map[string]string, error) {
	r, ok := c.send("-t", "con", "show", id)
	if !ok {
		return nil, fmt.Errorf("show connection %s: %w", id, ErrCommandFailed)
	}
	kv := ParseKeyValue(r)
	if kv == nil {
		return nil, fmt.Errorf("show connection %s: exit code %d: %w", id, r.ExitCode, ErrCommandFailed)
	}
	return kv, nil
}

// GetConnectionDetails reads a saved connection profile. It fails with
// ErrMissingField if the dump lacks a required setting.
func (c *Client) GetConnectionDetails(id string) (ConnectionDetails, error) {
	settings, err := c.connectionSettings(id)
	if err != nil {
		return ConnectionDetails{}, err
	}

	required := make(map[string]string)
	for _, key := range []string{keyConnectionType, keyIPv4Method, keyIPv4Addresses, keyIPv4Routes, keyIPv4DNS} {
		v, ok := settings[key]
		if !ok {
			return ConnectionDetails{}, fmt.Errorf("connection %s: %s: %w", id, key, ErrMissingField)
		}
		required[key] = v
	}

	name := "Wired"
	if ssid, ok := settings[keyWirelessSSID]; ok {
		name = ssid
	}
	mac, ok := settings[keyWirelessMAC]
	if !ok {
		mac = settings[keyEthernetMAC]
	}
	ip, _ := IPv4Address(required[keyIPv4Addresses])
	prefix, _ := IPv4Prefix(required[keyIPv4Addresses])
	// ipv4.gateway is what SetConnectionDetails writes; older dumps only
	// carry the gateway as a route.
	gateway := settings[keyIPv4Gateway]
	if gateway == "" || gateway == "--" {
		gateway, _ = GatewayAddress(required[keyIPv4Routes])
	}

	return ConnectionDetails{
		UUID:       id,
		Name:       name,
		MACAddress: mac,
		IsWireless: strings.Contains(required[keyConnectionType], "wireless"),
		IPv4: IPv4Settings{
			Method:  required[keyIPv4Method],
			IP:      ip,
			Prefix:  prefix,
			Gateway: gateway,
			DNS:     strings.Fields(required[keyIPv4DNS]),
		},
	}, nil
}

// defaultPrefix is used for a bare address whose prefix is unknown.
const defaultPrefix = 24

// withPrefix appends prefix, or defaultPrefix if zero, to a bare address.
func withPrefix(ip string, prefix int) string {
	if strings.Contains(ip, "/") {
		return ip
	}
	if prefix <= 0 {
		prefix = defaultPrefix
	}
	return ip + "/" + strconv.Itoa(prefix)
}

// SetConnectionDetails writes the PSK and ipv4 settings of a saved
// connection profile. Invalid details are rejected without invoking the tool.
func (c *Client) SetConnectionDetails(id string, d ConnectionDetails) bool {
	if err := d.Validate(); err != nil {
		c.logger.Warn("refusing to modify connection", "uuid", id, "error", err)
		return false
	}

	args := []string{"-t", "con", "modify", id}
	if d.IsWireless && d.PSK != "" {
		args = append(args, "802-11-wireless-security.psk", d.PSK)
	}
	args = append(args, keyIPv4Method, d.IPv4.Method)
	if d.IPv4.Method == MethodManual {
		args = append(args,
			keyIPv4Addresses, withPrefix(d.IPv4.IP, d.IPv4.Prefix),
			keyIPv4Gateway, d.IPv4.Gateway,
			keyIPv4DNS, strings.Join(d.IPv4.DNS, " "),
		)
	}

	r, ok := c.send(args...)
	return ok && r.OK()
}

// ClearConfiguredConnections deletes every saved connection whose name
// contains substr, and returns how many were deleted.
// An empty substr matches nothing.
func (c *Client) ClearConfiguredConnections(substr string) int {
	if substr == "" {
		c.logger.Warn("refusing to clear connections without a name filter")
		return 0
	}
	deleted := 0
	for _, conn := range c.ListConfiguredConnections() {
		if !strings.Contains(conn.Name, substr) {
			continue
		}
		c.logger.Info("deleting connection", "name", conn.Name, "uuid", conn.UUID)
		if c.DeleteConfiguredConnection(conn.UUID) {
			deleted++
		}
	}
	return deleted
}

// DisconnectInterface disconnects the device bound to kind. It returns
// ErrNotFound if no such device exists and ErrNotActive if the device is
// not connected; neither leaves the system changed.
func (c *Client) DisconnectInterface(kind InterfaceKind) (Result, error) {
	iface, ok := c.ListInterfaces()[kind]
	if !ok {
		c.logger.Error("could not find interface", "interface", kind)
		return Result{}, fmt.Errorf("interface %s: %w", kind, ErrNotFound)
	}
	return c.disconnectDevice(iface.Device)
}

// disconnectDevice uses `dev disconnect` rather than `con down` so the
// device still autoconnects later.
func (c *Client) disconnectDevice(device string) (Result, error) {
	if !c.IsDeviceActive(device) {
		c.logger.Info("device not active, nothing to disconnect", "device", device)
		return Result{ExitCode: 1, Output: "Device not active"}, fmt.Errorf("device %s: %w", device, ErrNotActive)
	}
	r, ok := c.send("dev", "disconnect", device)
	if !ok {
		return Result{}, fmt.Errorf("disconnect %s: %w", device, ErrCommandFailed)
	}
	return r, nil
}

// IsWifiConfigured reports whether any wifi device exists.
func (c *Client) IsWifiConfigured() bool {
	for _, row := range c.rows("-t", "-f", "TYPE", "dev") {
		if field(row, 0) == string(InterfaceWifi) {
			return true
		}
	}
	return false
}

// IsDeviceActive reports whether device (e.g. "wlan0") is in the
// "connected" state. Unknown devices are not active.
func (c *Client) IsDeviceActive(device string) bool {
	for _, row := range c.rows("-t", "-f", "DEVICE,STATE", "device", "status") {
		if field(row, 0) == device {
			return field(row, 1) == "connected"
		}
	}
	return false
}

// ListActiveConnections lists connections currently bound to a device.
func (c *Client) ListActiveConnections() []ActiveConnection {
	var conns []ActiveConnection
	for _, row := range c.rows("-t", "-f", "NAME,DEVICE,TYPE", "c", "show", "--active") {
		conns = append(conns, ActiveConnection{
			Name:   field(row, 0),
			Device: field(row, 1),
			Type:   field(row, 2),
		})
	}
	return conns
}

// ConnectToWifi connects to ssid, creating a new profile. Existing profiles
// that mention ssid are cleared first so partial duplicates do not pile up.
// An empty ssid clears nothing, since ClearConfiguredConnections ignores an
// empty filter.
func (c *Client) ConnectToWifi(ssid, psk string) (Result, error) {
	for _, conn := range c.ListConfiguredConnections() {
		if conn.Name == ssid || conn.UUID == ssid || string(conn.Type) == ssid {
			c.ClearConfiguredConnections(ssid)
			break
		}
	}

	args := []string{"dev", "wifi", "connect", ssid}
	if psk != "" {
		args = append(args, "password", psk)
	}

	c.logger.Info("creating new connection", "ssid", ssid)
	r, ok := c.send(args...)
	if !ok {
		return Result{}, fmt.Errorf("connect %s: %w", ssid, ErrCommandFailed)
	}
	return r, nil
}

// ResetWifiRadio turns the wifi radio off and back on, blocking for five
// seconds in between.
func (c *Client) ResetWifiRadio() {
	c.send("radio", "wifi", "off")
	c.sleep(radioResetDelay)
	c.send("radio", "wifi", "on")
	c.logger.Info("wifi reset")
}

// ListInterfaces maps each known interface kind to its device. When a kind
// has several devices the first one wins, unless only a later one carries a
// connection.
func (c *Client) ListInterfaces() map[InterfaceKind]InterfaceInfo {
	interfaces := make(map[InterfaceKind]InterfaceInfo)
	for _, row := range c.rows("-t", "-f", "TYPE,DEVICE,CON-UUID", "dev") {
		kind, ok := ParseInterfaceKind(field(row, 0))
		if !ok {
			continue
		}
		info := InterfaceInfo{
			Kind:           kind,
			Device:         field(row, 1),
			ConnectionUUID: field(row, 2),
		}
		if existing, ok := interfaces[kind]; ok {
			if existing.ConnectionUUID != "" || info.ConnectionUUID == "" {
				continue
			}
		}
		interfaces[kind] = info
	}
	return interfaces
}

// InterfaceIP returns the first IPv4 address of device, or "" if it has none.
func (c *Client) InterfaceIP(device string) string {
	for _, row := range c.rows("-t", "-f", "IP4.ADDRESS", "d", "show", device) {
		for _, f := range row {
			if ip := ipRegex.FindString(f); ip != "" {
				return ip
			}
		}
	}
	return ""
}

// ToolVersion returns the version reported by `nmcli --version`. ok is false
// if the tool could not be queried.
func (c *Client) ToolVersion() (version string, ok bool) {
	r, launched := c.send("--version")
	if !launched || !r.OK() {
		return "", false
	}
	return versionToken(r.Output), true
}

// CheckToolVersion verifies that the tool is at least MinimumVersion. If the
// version cannot be queried the check is skipped.
func (c *Client) CheckToolVersion() error {
	v, ok := c.ToolVersion()
	if !ok {
		c.logger.Warn("could not determine nmcli version")
		return nil
	}

	cmp, err := CompareVersions(v, MinimumVersion)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, v, err)
	}
	if cmp == Less {
		return fmt.Errorf("%w: %s, must be at least %s", ErrUnsupportedVersion, v, MinimumVersion)
	}
	c.logger.Debug("nmcli version", "version", v)
	return nil
}

// ResolveConnection turns a connection name or UUID into a UUID. Anything
// that is neither a UUID nor a saved connection name is returned unchanged.
func (c *Client) ResolveConnection(ref string) string {
	if _, err := uuid.Parse(ref); err == nil {
		return ref
	}
	for _, conn := range c.ListConfiguredConnections() {
		if conn.Name == ref {
			return conn.UUID
		}
	}
	return ref
}
