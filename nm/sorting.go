package nm

import "sort"

// SortAccessPoints sorts access points in place, strongest signal first,
// falling back to SSID alphabetically.
func SortAccessPoints(aps []AccessPointRecord) {
	sort.SliceStable(aps, func(i, j int) bool {
		a := aps[i]
		b := aps[j]

		if a.Signal != b.Signal {
			return a.Signal > b.Signal
		}
		return a.SSID < b.SSID
	})
}

// SortConnections sorts configured connections in place: wired before
// wireless before anything else, then by name.
func SortConnections(conns []ConnectionRecord) {
	rank := func(t ConnectionType) int {
		switch t {
		case ConnectionWired:
			return 0
		case ConnectionWireless:
			return 1
		}
		return 2
	}
	sort.SliceStable(conns, func(i, j int) bool {
		a := conns[i]
		b := conns[j]

		if rank(a.Type) != rank(b.Type) {
			return rank(a.Type) < rank(b.Type)
		}
		return a.Name < b.Name
	})
}
