package nm

// ConnectionType is the normalized type of a configured connection.
type ConnectionType string

const (
	ConnectionWired    ConnectionType = "Wired"
	ConnectionWireless ConnectionType = "Wireless"
)

// InterfaceKind is the logical class of a network device.
type InterfaceKind string

const (
	InterfaceEthernet InterfaceKind = "ethernet"
	InterfaceWifi     InterfaceKind = "wifi"
)

// KnownInterfaceKinds lists the interface kinds reported by ListInterfaces and GetStatus.
var KnownInterfaceKinds = []InterfaceKind{InterfaceEthernet, InterfaceWifi}

// ParseInterfaceKind returns the kind named by s.
func ParseInterfaceKind(s string) (InterfaceKind, bool) {
	for _, k := range KnownInterfaceKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// IPv4 methods understood by SetConnectionDetails.
const (
	MethodAuto   = "auto"
	MethodManual = "manual"
)

// ConnectionRecord is a configured connection profile.
type ConnectionRecord struct {
	Name string         `json:"name"`
	UUID string         `json:"uuid"`
	Type ConnectionType `json:"type"`
}

// AccessPointRecord is a single visible network from a scan.
type AccessPointRecord struct {
	SSID     string `json:"ssid"`
	Signal   int    `json:"signal"` // 0-100
	Security string `json:"security"`
}

// InterfaceInfo binds an interface kind to its device and active connection.
type InterfaceInfo struct {
	Kind           InterfaceKind `json:"kind"`
	Device         string        `json:"device"`
	ConnectionUUID string        `json:"connection_uuid"`
}

// IPv4Settings holds the ipv4 section of a connection profile.
type IPv4Settings struct {
	Method  string   `json:"method" validate:"oneof=auto manual"`
	IP      string   `json:"ip" validate:"required_if=Method manual,omitempty,ipv4_prefix"`
	Prefix  int      `json:"prefix,omitempty" validate:"omitempty,max=32"` // 0 means unknown
	Gateway string   `json:"gateway" validate:"omitempty,ipv4"`
	DNS     []string `json:"dns" validate:"dive,ipv4"`
}

// ConnectionDetails is the editable view of a single connection profile.
// PSK is write-only: it is never populated from the tool.
type ConnectionDetails struct {
	UUID       string       `json:"uuid"`
	Name       string       `json:"name"`
	MACAddress string       `json:"mac_address"`
	IsWireless bool         `json:"is_wireless"`
	PSK        string       `json:"psk,omitempty"`
	IPv4       IPv4Settings `json:"ipv4"`
}

// InterfaceStatus is the current state of one interface kind.
// IP and SSID are empty when absent.
type InterfaceStatus struct {
	ConnectionUUID string `json:"connection_uuid"`
	Connected      bool   `json:"connected"`
	IP             string `json:"ip,omitempty"`
	SSID           string `json:"ssid,omitempty"`
}

// StatusSummary maps each known interface kind to its status.
type StatusSummary map[InterfaceKind]InterfaceStatus

// ActiveConnection is a connection currently bound to a device.
type ActiveConnection struct {
	Name   string `json:"name"`
	Device string `json:"device"`
	Type   string `json:"type"`
}
