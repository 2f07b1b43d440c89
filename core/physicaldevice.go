package core

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/deluxo/vkcore/device"
)

// PhysicalDevice is an immutable snapshot of one device as reported by the
// driver at enumeration time. It is a description, not an owned resource:
// there is nothing to destroy, and the snapshot is only meaningful while
// the originating instance is alive.
type PhysicalDevice struct {
	handle        vk.PhysicalDevice
	name          string
	properties    vk.PhysicalDeviceProperties
	queueFamilies []vk.QueueFamilyProperties
	features      *FeatureSet
	extensions    []string
	layers        []string
	memory        vk.DeviceSize
}

// Handle returns the native device handle for use with further API calls.
func (p *PhysicalDevice) Handle() vk.PhysicalDevice {
	return p.handle
}

// Name returns the driver-reported device name.
func (p *PhysicalDevice) Name() string {
	return p.name
}

// Properties returns the static device properties captured at enumeration.
func (p *PhysicalDevice) Properties() vk.PhysicalDeviceProperties {
	return p.properties
}

// QueueFamilies returns the queue family properties in family index order.
func (p *PhysicalDevice) QueueFamilies() []vk.QueueFamilyProperties {
	families := make([]vk.QueueFamilyProperties, len(p.queueFamilies))
	copy(families, p.queueFamilies)
	return families
}

// QueueFamilyCount returns the number of queue families on the device.
func (p *PhysicalDevice) QueueFamilyCount() int {
	return len(p.queueFamilies)
}

// Features returns the feature set the driver reported as supported.
func (p *PhysicalDevice) Features() *FeatureSet {
	return p.features
}

// Extensions returns the device-level extension names the driver reported.
func (p *PhysicalDevice) Extensions() []string {
	names := make([]string, len(p.extensions))
	copy(names, p.extensions)
	return names
}

// Layers returns the device-level layer names the driver reported.
func (p *PhysicalDevice) Layers() []string {
	names := make([]string, len(p.layers))
	copy(names, p.layers)
	return names
}

// Memory returns the combined size of the device's memory heaps.
func (p *PhysicalDevice) Memory() vk.DeviceSize {
	return p.memory
}

// Supports reports whether the device satisfies every feature in the
// request. Core features must be reported enabled by the driver;
// extension-qualified features are satisfied when the owning extension is
// available on the device. An empty (or nil) request is trivially
// satisfied. Pure predicate over the snapshot, no driver calls.
func (p *PhysicalDevice) Supports(requested *FeatureSet) bool {
	for _, name := range requested.Names() {
		if extension, _, ok := splitExtensionFeature(name); ok {
			if !containsName(p.extensions, extension) {
				return false
			}
			continue
		}
		if !p.features.Enabled(name) {
			return false
		}
	}
	return true
}

// ExtensionRegistry returns a registry over the device's extension set for
// resolving device-level extension requests.
func (p *PhysicalDevice) ExtensionRegistry() *ExtensionRegistry {
	return NewExtensionRegistry(DeviceExtensions, p.extensions)
}

// LayerRegistry returns a registry over the device's layer set.
func (p *PhysicalDevice) LayerRegistry() *ExtensionRegistry {
	return NewExtensionRegistry(DeviceLayers, p.layers)
}

// IsDiscreteGPU reports whether the driver classifies the device as a
// discrete GPU.
func (p *PhysicalDevice) IsDiscreteGPU() bool {
	return p.properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu
}

// HasQueueFlags reports whether at least one queue family supports all the
// given operation flags.
func (p *PhysicalDevice) HasQueueFlags(flags vk.QueueFlags) bool {
	for _, family := range p.queueFamilies {
		if family.QueueFlags&flags == flags {
			return true
		}
	}
	return false
}

func (p *PhysicalDevice) String() string {
	return fmt.Sprintf("PhysicalDevice{%s, %d queue families}", p.name, len(p.queueFamilies))
}

// Info flattens the snapshot into the report struct used by diagnostic
// tooling.
func (p *PhysicalDevice) Info() device.PhysicalDeviceInfo {
	families := make([]device.QueueFamilySummary, len(p.queueFamilies))
	for i, family := range p.queueFamilies {
		families[i] = device.QueueFamilySummary{
			Index:              i,
			Count:              family.QueueCount,
			Flags:              queueFlagNames(family.QueueFlags),
			TimestampValidBits: family.TimestampValidBits,
		}
	}
	return device.PhysicalDeviceInfo{
		Name:          p.name,
		DeviceID:      int(p.properties.DeviceID),
		VendorID:      int(p.properties.VendorID),
		DriverVersion: int(p.properties.DriverVersion),
		APIVersion:    int(p.properties.ApiVersion),
		Type:          deviceTypeName(p.properties.DeviceType),
		Memory:        uint64(p.memory),
		QueueFamilies: families,
		Extensions:    p.Extensions(),
		Layers:        p.Layers(),
		Features:      p.features.Names(),
	}
}

// PhysicalDeviceSlice supports caller-driven selection policy. The package
// enumerates and describes; which device wins, and on what tie-break, is
// expressed by filtering the slice.
type PhysicalDeviceSlice []*PhysicalDevice

// Filter returns the devices matching the predicate.
func (s PhysicalDeviceSlice) Filter(f func(*PhysicalDevice) bool) PhysicalDeviceSlice {
	ret := make(PhysicalDeviceSlice, 0, len(s))
	for _, d := range s {
		if f(d) {
			ret = append(ret, d)
		}
	}
	return ret
}

// FilterFeatures keeps devices supporting every requested feature.
func (s PhysicalDeviceSlice) FilterFeatures(requested *FeatureSet) PhysicalDeviceSlice {
	return s.Filter(func(d *PhysicalDevice) bool {
		return d.Supports(requested)
	})
}

// FilterDiscrete keeps discrete GPUs.
func (s PhysicalDeviceSlice) FilterDiscrete() PhysicalDeviceSlice {
	return s.Filter(func(d *PhysicalDevice) bool {
		return d.IsDiscreteGPU()
	})
}

// FilterQueueFlags keeps devices with at least one queue family supporting
// all the given flags.
func (s PhysicalDeviceSlice) FilterQueueFlags(flags vk.QueueFlags) PhysicalDeviceSlice {
	return s.Filter(func(d *PhysicalDevice) bool {
		return d.HasQueueFlags(flags)
	})
}

func queueFlagNames(flags vk.QueueFlags) []string {
	var names []string
	if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		names = append(names, "graphics")
	}
	if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		names = append(names, "compute")
	}
	if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		names = append(names, "transfer")
	}
	if flags&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		names = append(names, "sparse-binding")
	}
	return names
}

func deviceTypeName(deviceType vk.PhysicalDeviceType) string {
	switch deviceType {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated-gpu"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete-gpu"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual-gpu"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}
