// Copyright (c) 2023 deluxo
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"unsafe"

	"github.com/gobuffalo/packr"
	vk "github.com/vulkan-go/vulkan"

	"github.com/deluxo/vkcore/core"
)

var fixtureAssets = packr.NewBox("testdata")

// Handles handed out by the fixture are fabricated, never dereferenced,
// and only compared for identity.
func fixtureInstanceHandle() vk.Instance {
	return vk.Instance(unsafe.Pointer(uintptr(0x100)))
}

func fixturePhysicalHandle(index int) vk.PhysicalDevice {
	return vk.PhysicalDevice(unsafe.Pointer(uintptr(0x1000 + index + 1)))
}

func fixtureDeviceHandle(serial int) vk.Device {
	return vk.Device(unsafe.Pointer(uintptr(0x2000 + serial)))
}

func fixtureQueueHandle(familyIndex, queueIndex uint32) vk.Queue {
	return vk.Queue(unsafe.Pointer(uintptr(0x4000 + uintptr(familyIndex)*0x100 + uintptr(queueIndex) + 1)))
}

func fixtureDebugCallbackHandle() vk.DebugReportCallback {
	return vk.DebugReportCallback(unsafe.Pointer(uintptr(0x6000)))
}

type queueFamilyProfile struct {
	Count              uint32   `json:"count"`
	Flags              []string `json:"flags"`
	TimestampValidBits uint32   `json:"timestampValidBits"`
}

type deviceProfile struct {
	Name          string               `json:"name"`
	Type          string               `json:"type"`
	DeviceID      uint32               `json:"deviceId"`
	VendorID      uint32               `json:"vendorId"`
	Memory        uint64               `json:"memory"`
	QueueFamilies []queueFamilyProfile `json:"queueFamilies"`
	Extensions    []string             `json:"extensions"`
	Layers        []string             `json:"layers"`
	Features      []string             `json:"features"`
}

type fixtureDevice struct {
	profile       deviceProfile
	queueFamilies []vk.QueueFamilyProperties
	features      vk.PhysicalDeviceFeatures
}

// fixtureAPI implements core.API against the device profiles in testdata,
// recording create and destroy traffic so tests can assert on it.
type fixtureAPI struct {
	instanceExtensions []string
	instanceLayers     []string
	devices            []fixtureDevice

	enumerateErr    error
	createDeviceErr error

	instancesDestroyed int
	devicesCreated     int
	devicesDestroyed   int
	debugInstalled     int
}

func newFixtureAPI(t *testing.T) *fixtureAPI {
	t.Helper()

	var profiles []deviceProfile
	if err := json.Unmarshal(fixtureAssets.Bytes("devices.json"), &profiles); err != nil {
		t.Fatalf("could not parse device profiles: %v", err)
	}

	api := &fixtureAPI{
		instanceExtensions: []string{
			"VK_KHR_surface",
			"VK_KHR_get_physical_device_properties2",
			core.DebugReportExtensionName,
		},
		instanceLayers: []string{
			core.ValidationLayerName,
			"VK_LAYER_LUNARG_api_dump",
		},
	}
	for _, profile := range profiles {
		api.devices = append(api.devices, fixtureDevice{
			profile:       profile,
			queueFamilies: familiesFromProfiles(profile.QueueFamilies),
			features:      featuresFromNames(profile.Features),
		})
	}
	return api
}

func familiesFromProfiles(profiles []queueFamilyProfile) []vk.QueueFamilyProperties {
	families := make([]vk.QueueFamilyProperties, len(profiles))
	for i, profile := range profiles {
		families[i] = vk.QueueFamilyProperties{
			QueueFlags:         queueFlagsFromNames(profile.Flags),
			QueueCount:         profile.Count,
			TimestampValidBits: profile.TimestampValidBits,
		}
	}
	return families
}

func queueFlagsFromNames(names []string) vk.QueueFlags {
	var flags vk.QueueFlags
	for _, name := range names {
		switch name {
		case "graphics":
			flags |= vk.QueueFlags(vk.QueueGraphicsBit)
		case "compute":
			flags |= vk.QueueFlags(vk.QueueComputeBit)
		case "transfer":
			flags |= vk.QueueFlags(vk.QueueTransferBit)
		case "sparse-binding":
			flags |= vk.QueueFlags(vk.QueueSparseBindingBit)
		}
	}
	return flags
}

func featuresFromNames(names []string) vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	value := reflect.ValueOf(&features).Elem()
	for _, name := range names {
		field := value.FieldByName(name)
		if field.IsValid() && field.CanSet() {
			field.SetUint(1)
		}
	}
	return features
}

func deviceTypeFromName(name string) vk.PhysicalDeviceType {
	switch name {
	case "integrated-gpu":
		return vk.PhysicalDeviceTypeIntegratedGpu
	case "discrete-gpu":
		return vk.PhysicalDeviceTypeDiscreteGpu
	case "virtual-gpu":
		return vk.PhysicalDeviceTypeVirtualGpu
	case "cpu":
		return vk.PhysicalDeviceTypeCpu
	default:
		return vk.PhysicalDeviceTypeOther
	}
}

func (f *fixtureAPI) device(handle vk.PhysicalDevice) *fixtureDevice {
	for i := range f.devices {
		if fixturePhysicalHandle(i) == handle {
			return &f.devices[i]
		}
	}
	return nil
}

func (f *fixtureAPI) InstanceExtensionNames() ([]string, error) {
	return f.instanceExtensions, nil
}

func (f *fixtureAPI) InstanceLayerNames() ([]string, error) {
	return f.instanceLayers, nil
}

func (f *fixtureAPI) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	return fixtureInstanceHandle(), nil
}

func (f *fixtureAPI) DestroyInstance(instance vk.Instance) {
	f.instancesDestroyed++
}

func (f *fixtureAPI) CreateDebugCallback(instance vk.Instance, callback vk.DebugReportCallbackFunc) (vk.DebugReportCallback, error) {
	f.debugInstalled++
	return fixtureDebugCallbackHandle(), nil
}

func (f *fixtureAPI) DestroyDebugCallback(instance vk.Instance, callback vk.DebugReportCallback) {}

func (f *fixtureAPI) EnumeratePhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}
	handles := make([]vk.PhysicalDevice, len(f.devices))
	for i := range f.devices {
		handles[i] = fixturePhysicalHandle(i)
	}
	return handles, nil
}

func (f *fixtureAPI) PhysicalDeviceProperties(handle vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	d := f.device(handle)
	var properties vk.PhysicalDeviceProperties
	copy(properties.DeviceName[:], d.profile.Name)
	properties.DeviceID = d.profile.DeviceID
	properties.VendorID = d.profile.VendorID
	properties.DeviceType = deviceTypeFromName(d.profile.Type)
	properties.ApiVersion = vk.MakeVersion(1, 0, 0)
	properties.DriverVersion = 1
	return properties
}

func (f *fixtureAPI) PhysicalDeviceQueueFamilies(handle vk.PhysicalDevice) []vk.QueueFamilyProperties {
	return f.device(handle).queueFamilies
}

func (f *fixtureAPI) PhysicalDeviceFeatures(handle vk.PhysicalDevice) vk.PhysicalDeviceFeatures {
	return f.device(handle).features
}

func (f *fixtureAPI) PhysicalDeviceMemory(handle vk.PhysicalDevice) vk.DeviceSize {
	return vk.DeviceSize(f.device(handle).profile.Memory)
}

func (f *fixtureAPI) DeviceExtensionNames(handle vk.PhysicalDevice) ([]string, error) {
	return f.device(handle).profile.Extensions, nil
}

func (f *fixtureAPI) DeviceLayerNames(handle vk.PhysicalDevice) ([]string, error) {
	return f.device(handle).profile.Layers, nil
}

func (f *fixtureAPI) CreateDevice(physicalDevice vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	if f.createDeviceErr != nil {
		return nil, f.createDeviceErr
	}
	f.devicesCreated++
	return fixtureDeviceHandle(f.devicesCreated), nil
}

func (f *fixtureAPI) DestroyDevice(device vk.Device) {
	f.devicesDestroyed++
}

func (f *fixtureAPI) DeviceQueue(device vk.Device, familyIndex, queueIndex uint32) vk.Queue {
	return fixtureQueueHandle(familyIndex, queueIndex)
}

func (f *fixtureAPI) DeviceWaitIdle(device vk.Device) error {
	return nil
}

func newTestInstance(t *testing.T, api *fixtureAPI, cfg core.InstanceConfiguration) *core.VulkanInstance {
	t.Helper()
	instance, err := core.NewVulkanInstance(api, cfg)
	if err != nil {
		t.Fatalf("could not create instance: %v", err)
	}
	return instance
}
