package nm

import (
	"strconv"
	"strings"
)

// splitTerse splits one line of terse output on ':'.
// nmcli escapes literal colons and backslashes inside values as "\:" and "\\".
func splitTerse(line string) []string {
	var fields []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	return append(fields, b.String())
}

func lines(output string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n") {
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseRows splits each line of a terse listing into its fields.
// It returns nil if the command did not exit with status zero.
func ParseRows(r Result) [][]string {
	if !r.OK() {
		return nil
	}
	var rows [][]string
	for _, line := range lines(r.Output) {
		rows = append(rows, splitTerse(line))
	}
	return rows
}

// ParseKeyValue parses a terse "key:value" dump. Lines that do not split
// into exactly two fields are dropped. It returns nil if the command did not
// exit with status zero.
func ParseKeyValue(r Result) map[string]string {
	if !r.OK() {
		return nil
	}
	kv := make(map[string]string)
	for _, line := range lines(r.Output) {
		fields := splitTerse(line)
		if len(fields) != 2 {
			continue
		}
		kv[fields[0]] = fields[1]
	}
	return kv
}

// field returns row[i], or "" if the row is too short.
func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// extractBetween returns the text after the first start marker and before
// the next end marker.
func extractBetween(s, start, end string) (string, bool) {
	i := strings.Index(s, start)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

// IPv4Address extracts the address from an ipv4.addresses value such as
// "{ ip = 192.168.1.5/24, gw = 192.168.1.1 }".
func IPv4Address(s string) (string, bool) {
	return extractBetween(s, "ip = ", "/")
}

// IPv4Prefix extracts the prefix length that follows the address in an
// ipv4.addresses value, e.g. 24 for "{ ip = 192.168.1.5/24, gw = 192.168.1.1 }".
func IPv4Prefix(s string) (int, bool) {
	i := strings.Index(s, "ip = ")
	if i < 0 {
		return 0, false
	}
	rest := s[i+len("ip = "):]
	j := strings.Index(rest, "/")
	if j < 0 {
		return 0, false
	}
	rest = rest[j+1:]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil || n > 32 {
		return 0, false
	}
	return n, true
}

// GatewayAddress extracts the destination from an ipv4.routes value such as
// "{ dst = 192.168.0.1/24, nh = 0.0.0.0, mt = 0 }".
func GatewayAddress(s string) (string, bool) {
	return extractBetween(s, "dst = ", "/")
}

// FilterAccessPoints removes duplicate SSIDs, keeping the entry with the
// highest signal. Surviving entries keep the position of the first sighting.
func FilterAccessPoints(aps []AccessPointRecord) []AccessPointRecord {
	index := make(map[string]int)
	var filtered []AccessPointRecord
	for _, ap := range aps {
		i, ok := index[ap.SSID]
		if !ok {
			index[ap.SSID] = len(filtered)
			filtered = append(filtered, ap)
			continue
		}
		if ap.Signal > filtered[i].Signal {
			filtered[i] = ap
		}
	}
	return filtered
}
