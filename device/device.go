// Copyright (c) 2023 deluxo
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device holds the flattened capability reports produced from
// physical device snapshots. The structs are plain data, JSON-friendly,
// and carry no handles, so they stay valid after the instance that
// produced them is gone.
package device

// QueueFamilySummary describes one queue family of a physical device.
type QueueFamilySummary struct {
	Index              int      `json:"index"`
	Count              uint32   `json:"count"`
	Flags              []string `json:"flags"`
	TimestampValidBits uint32   `json:"timestampValidBits"`
}

// PhysicalDeviceInfo describes the capabilities of a physical device as
// reported by the driver at enumeration time.
type PhysicalDeviceInfo struct {
	Name          string               `json:"name"`
	DeviceID      int                  `json:"deviceId"`
	VendorID      int                  `json:"vendorId"`
	DriverVersion int                  `json:"driverVersion"`
	APIVersion    int                  `json:"apiVersion"`
	Type          string               `json:"type"`
	Memory        uint64               `json:"memory"`
	QueueFamilies []QueueFamilySummary `json:"queueFamilies"`
	Extensions    []string             `json:"extensions"`
	Layers        []string             `json:"layers"`
	Features      []string             `json:"features"`
}
