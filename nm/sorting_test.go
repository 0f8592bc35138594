package nm

import (
	"reflect"
	"testing"
)

func TestSortAccessPoints(t *testing.T) {
	aps := []AccessPointRecord{
		{SSID: "Weak", Signal: 10},
		{SSID: "Strong", Signal: 90},
		{SSID: "Beta", Signal: 50},
		{SSID: "Alpha", Signal: 50},
	}
	expected := []AccessPointRecord{
		{SSID: "Strong", Signal: 90},
		{SSID: "Alpha", Signal: 50},
		{SSID: "Beta", Signal: 50},
		{SSID: "Weak", Signal: 10},
	}

	SortAccessPoints(aps)
	if !reflect.DeepEqual(aps, expected) {
		t.Errorf("SortAccessPoints() got = %v, want %v", aps, expected)
	}
}

func TestSortConnections(t *testing.T) {
	tests := []struct {
		name        string
		connections []ConnectionRecord
		expected    []ConnectionRecord
	}{
		{
			name: "Wired before wireless",
			connections: []ConnectionRecord{
				{Name: "Home", Type: ConnectionWireless},
				{Name: "Office", Type: ConnectionWired},
			},
			expected: []ConnectionRecord{
				{Name: "Office", Type: ConnectionWired},
				{Name: "Home", Type: ConnectionWireless},
			},
		},
		{
			name: "Other types last",
			connections: []ConnectionRecord{
				{Name: "br0", Type: "bridge"},
				{Name: "Home", Type: ConnectionWireless},
			},
			expected: []ConnectionRecord{
				{Name: "Home", Type: ConnectionWireless},
				{Name: "br0", Type: "bridge"},
			},
		},
		{
			name: "Fallback to name",
			connections: []ConnectionRecord{
				{Name: "b", Type: ConnectionWireless},
				{Name: "a", Type: ConnectionWireless},
			},
			expected: []ConnectionRecord{
				{Name: "a", Type: ConnectionWireless},
				{Name: "b", Type: ConnectionWireless},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortConnections(tt.connections)
			if !reflect.DeepEqual(tt.connections, tt.expected) {
				t.Errorf("SortConnections() got = %v, want %v", tt.connections, tt.expected)
			}
		})
	}
}
