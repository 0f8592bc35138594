package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wifinm/nmclient/nm"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func runScan(w io.Writer, asJSON bool, rescan bool, c *nm.Client) error {
	aps := c.ScanAccessPoints(rescan)
	nm.SortAccessPoints(aps)
	if asJSON {
		if aps == nil {
			aps = []nm.AccessPointRecord{}
		}
		return writeJSON(w, aps)
	}

	rows := make([][]string, 0, len(aps))
	for _, ap := range aps {
		security := ap.Security
		if security == "" {
			security = "open"
		}
		rows = append(rows, []string{ap.SSID, fmt.Sprintf("%d%%", ap.Signal), security})
	}
	return writeTable(w, []string{"SSID", "SIGNAL", "SECURITY"}, rows)
}

func runStatus(w io.Writer, asJSON bool, c *nm.Client) error {
	status := c.GetStatus()
	if asJSON {
		return writeJSON(w, status)
	}

	var rows [][]string
	for _, kind := range nm.KnownInterfaceKinds {
		s, ok := status[kind]
		if !ok {
			continue
		}
		rows = append(rows, []string{string(kind), yesNo(s.Connected), s.ConnectionUUID, s.IP, s.SSID})
	}
	return writeTable(w, []string{"INTERFACE", "CONNECTED", "CONNECTION", "IP", "SSID"}, rows)
}

func runList(w io.Writer, asJSON bool, c *nm.Client) error {
	conns := c.ListConfiguredConnections()
	nm.SortConnections(conns)
	if asJSON {
		if conns == nil {
			conns = []nm.ConnectionRecord{}
		}
		return writeJSON(w, conns)
	}

	rows := make([][]string, 0, len(conns))
	for _, conn := range conns {
		rows = append(rows, []string{conn.Name, conn.UUID, string(conn.Type)})
	}
	return writeTable(w, []string{"NAME", "UUID", "TYPE"}, rows)
}

func runActive(w io.Writer, asJSON bool, c *nm.Client) error {
	conns := c.ListActiveConnections()
	if asJSON {
		if conns == nil {
			conns = []nm.ActiveConnection{}
		}
		return writeJSON(w, conns)
	}

	rows := make([][]string, 0, len(conns))
	for _, conn := range conns {
		rows = append(rows, []string{conn.Name, conn.Device, conn.Type})
	}
	return writeTable(w, []string{"NAME", "DEVICE", "TYPE"}, rows)
}

func runInterfaces(w io.Writer, asJSON bool, c *nm.Client) error {
	interfaces := c.ListInterfaces()
	if asJSON {
		return writeJSON(w, interfaces)
	}

	var rows [][]string
	for _, kind := range nm.KnownInterfaceKinds {
		iface, ok := interfaces[kind]
		if !ok {
			continue
		}
		rows = append(rows, []string{string(kind), iface.Device, iface.ConnectionUUID})
	}
	return writeTable(w, []string{"INTERFACE", "DEVICE", "CONNECTION"}, rows)
}

func runShow(w io.Writer, asJSON bool, ref string, c *nm.Client) error {
	id := c.ResolveConnection(ref)
	d, err := c.GetConnectionDetails(id)
	if err != nil {
		return fmt.Errorf("failed to read connection %s: %w", ref, err)
	}
	if asJSON {
		return writeJSON(w, d)
	}

	fmt.Fprintf(w, "UUID: %s\n", d.UUID)
	fmt.Fprintf(w, "Name: %s\n", d.Name)
	fmt.Fprintf(w, "MAC: %s\n", d.MACAddress)
	fmt.Fprintf(w, "Wireless: %t\n", d.IsWireless)
	fmt.Fprintf(w, "Method: %s\n", d.IPv4.Method)
	ip := d.IPv4.IP
	if ip != "" && d.IPv4.Prefix > 0 {
		ip = fmt.Sprintf("%s/%d", ip, d.IPv4.Prefix)
	}
	fmt.Fprintf(w, "IP: %s\n", ip)
	fmt.Fprintf(w, "Gateway: %s\n", d.IPv4.Gateway)
	fmt.Fprintf(w, "DNS: %s\n", strings.Join(d.IPv4.DNS, ", "))
	return nil
}

// settingsUpdate carries the `set` flags. Empty fields keep the current value.
type settingsUpdate struct {
	Method  string
	IP      string
	Gateway string
	DNS     string
	PSK     string
}

func (u settingsUpdate) apply(d nm.ConnectionDetails) nm.ConnectionDetails {
	if u.Method != "" {
		d.IPv4.Method = u.Method
	}
	if u.IP != "" {
		d.IPv4.IP = u.IP
		// A bare address keeps the current prefix.
		if addr, bits, found := strings.Cut(u.IP, "/"); found {
			if n, err := strconv.Atoi(bits); err == nil {
				d.IPv4.IP, d.IPv4.Prefix = addr, n
			}
		}
	}
	if u.Gateway != "" {
		d.IPv4.Gateway = u.Gateway
	}
	if u.DNS != "" {
		var dns []string
		for _, s := range strings.Split(u.DNS, ",") {
			if s = strings.TrimSpace(s); s != "" {
				dns = append(dns, s)
			}
		}
		d.IPv4.DNS = dns
	}
	d.PSK = u.PSK
	return d
}

func runSet(w io.Writer, ref string, u settingsUpdate, c *nm.Client) error {
	id := c.ResolveConnection(ref)
	d, err := c.GetConnectionDetails(id)
	if err != nil {
		return fmt.Errorf("failed to read connection %s: %w", ref, err)
	}

	d = u.apply(d)
	if err := d.Validate(); err != nil {
		return err
	}
	if !c.SetConnectionDetails(id, d) {
		return fmt.Errorf("failed to update connection %s: %w", ref, nm.ErrCommandFailed)
	}
	fmt.Fprintf(w, "Updated %s\n", d.Name)
	return nil
}

func runDelete(w io.Writer, ref string, c *nm.Client) error {
	id := c.ResolveConnection(ref)
	if !c.DeleteConfiguredConnection(id) {
		return fmt.Errorf("failed to delete connection %s: %w", ref, nm.ErrCommandFailed)
	}
	fmt.Fprintf(w, "Deleted %s\n", id)
	return nil
}

func runClear(w io.Writer, substr string, c *nm.Client) error {
	n := c.ClearConfiguredConnections(substr)
	fmt.Fprintf(w, "Deleted %d connection(s)\n", n)
	return nil
}

// checkResult turns a non-zero exit into an error carrying the tool's output.
func checkResult(what string, r nm.Result) error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%s: exit %d: %s: %w", what, r.ExitCode, strings.TrimSpace(r.Output), nm.ErrCommandFailed)
}

func runConnect(w io.Writer, ssid, psk string, c *nm.Client) error {
	r, err := c.ConnectToWifi(ssid, psk)
	if err != nil {
		return err
	}
	if err := checkResult("connect "+ssid, r); err != nil {
		return err
	}
	fmt.Fprint(w, r.Output)
	return nil
}

func runDisconnect(w io.Writer, kindName string, c *nm.Client) error {
	kind, ok := nm.ParseInterfaceKind(kindName)
	if !ok {
		return fmt.Errorf("unknown interface %q, want ethernet or wifi", kindName)
	}
	r, err := c.DisconnectInterface(kind)
	if errors.Is(err, nm.ErrNotActive) {
		fmt.Fprintf(w, "%s is not active\n", kind)
		return nil
	}
	if err != nil {
		return err
	}
	if err := checkResult("disconnect "+string(kind), r); err != nil {
		return err
	}
	fmt.Fprint(w, r.Output)
	return nil
}

func runResetRadio(w io.Writer, c *nm.Client) error {
	c.ResetWifiRadio()
	fmt.Fprintln(w, "Wifi radio reset")
	return nil
}

func runBool(w io.Writer, asJSON bool, v bool) error {
	if asJSON {
		return writeJSON(w, v)
	}
	_, err := fmt.Fprintln(w, strconv.FormatBool(v))
	return err
}

func runQR(w io.Writer, ssid, psk string, c *nm.Client) error {
	var security string
	found := false
	for _, ap := range c.ScanAccessPoints(false) {
		if ap.SSID == ssid {
			security, found = ap.Security, true
			break
		}
	}
	if !found {
		return fmt.Errorf("network %s: %w", ssid, nm.ErrNotFound)
	}

	code, err := GenerateWifiQRCode(ssid, psk, security)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	fmt.Fprint(w, code)
	return nil
}

func runVersion(w io.Writer, asJSON bool, c *nm.Client) error {
	tool, _ := c.ToolVersion()
	if asJSON {
		return writeJSON(w, map[string]string{"nmclient": Version, "nmcli": tool})
	}
	fmt.Fprintf(w, "nmclient %s\n", Version)
	if tool != "" {
		fmt.Fprintf(w, "nmcli %s\n", tool)
	}
	return nil
}
