package core

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// API is the seam between the negotiation logic and the native Vulkan entry
// points. The package validates every request against snapshots obtained
// through it before any create call is made, so an implementation is only
// expected to relay calls, never to check them.
//
// Production code uses the implementation returned by NewVulkanAPI. Tests
// substitute fixtures.
type API interface {
	// InstanceExtensionNames lists the extensions the runtime reports as
	// available at instance level.
	InstanceExtensionNames() ([]string, error)

	// InstanceLayerNames lists the layers the runtime reports as available.
	InstanceLayerNames() ([]string, error)

	// CreateInstance creates the top-level API handle.
	CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error)

	// DestroyInstance releases the top-level handle.
	DestroyInstance(instance vk.Instance)

	// CreateDebugCallback installs a debug report callback on the instance.
	CreateDebugCallback(instance vk.Instance, callback vk.DebugReportCallbackFunc) (vk.DebugReportCallback, error)

	// DestroyDebugCallback removes a previously installed debug callback.
	DestroyDebugCallback(instance vk.Instance, callback vk.DebugReportCallback)

	// EnumeratePhysicalDevices lists the physical device handles known to
	// the instance.
	EnumeratePhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error)

	// PhysicalDeviceProperties returns the static properties of a device.
	PhysicalDeviceProperties(device vk.PhysicalDevice) vk.PhysicalDeviceProperties

	// PhysicalDeviceQueueFamilies returns the device's queue family
	// properties, in family index order.
	PhysicalDeviceQueueFamilies(device vk.PhysicalDevice) []vk.QueueFamilyProperties

	// PhysicalDeviceFeatures returns the feature flags the driver reports
	// for the device.
	PhysicalDeviceFeatures(device vk.PhysicalDevice) vk.PhysicalDeviceFeatures

	// PhysicalDeviceMemory returns the total size of the device's memory
	// heaps.
	PhysicalDeviceMemory(device vk.PhysicalDevice) vk.DeviceSize

	// DeviceExtensionNames lists the extensions available on a physical
	// device.
	DeviceExtensionNames(device vk.PhysicalDevice) ([]string, error)

	// DeviceLayerNames lists the layers available on a physical device.
	DeviceLayerNames(device vk.PhysicalDevice) ([]string, error)

	// CreateDevice creates a logical device on the physical device.
	CreateDevice(physicalDevice vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error)

	// DestroyDevice releases a logical device handle.
	DestroyDevice(device vk.Device)

	// DeviceQueue retrieves a queue handle created with the device.
	DeviceQueue(device vk.Device, familyIndex, queueIndex uint32) vk.Queue

	// DeviceWaitIdle blocks until the device finished all submitted work.
	DeviceWaitIdle(device vk.Device) error
}

// NewVulkanAPI initializes the Vulkan loader and returns the production
// implementation of API. It must be called before anything else in this
// package, and only once per process.
func NewVulkanAPI() (API, error) {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr")
	}
	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init")
	}
	return &vulkanAPI{}, nil
}

// vulkanAPI relays calls to the native binding. Enumerations follow the
// count-then-fill calling convention and dereference every returned struct
// so callers see plain Go values.
type vulkanAPI struct{}

func (a *vulkanAPI) InstanceExtensionNames() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties")
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties")
	}
	names := make([]string, 0, count)
	for _, property := range properties {
		property.Deref()
		names = append(names, vk.ToString(property.ExtensionName[:]))
	}
	return names, nil
}

func (a *vulkanAPI) InstanceLayerNames() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceLayerProperties")
	}
	properties := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceLayerProperties")
	}
	names := make([]string, 0, count)
	for _, property := range properties {
		property.Deref()
		names = append(names, vk.ToString(property.LayerName[:]))
	}
	return names, nil
}

func (a *vulkanAPI) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(info, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance")
	}
	vk.InitInstance(instance)
	return instance, nil
}

func (a *vulkanAPI) DestroyInstance(instance vk.Instance) {
	vk.DestroyInstance(instance, nil)
}

func (a *vulkanAPI) CreateDebugCallback(instance vk.Instance, callback vk.DebugReportCallbackFunc) (vk.DebugReportCallback, error) {
	var handle vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: callback,
	}, nil, &handle)
	if err := vk.Error(ret); err != nil {
		return vk.NullDebugReportCallback, errors.Wrap(err, "vk.CreateDebugReportCallback")
	}
	return handle, nil
}

func (a *vulkanAPI) DestroyDebugCallback(instance vk.Instance, callback vk.DebugReportCallback) {
	vk.DestroyDebugReportCallback(instance, callback, nil)
}

func (a *vulkanAPI) EnumeratePhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &count, devices)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices")
	}
	return devices, nil
}

func (a *vulkanAPI) PhysicalDeviceProperties(device vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()
	return properties
}

func (a *vulkanAPI) PhysicalDeviceQueueFamilies(device vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, families)
	for i := range families {
		families[i].Deref()
	}
	return families
}

func (a *vulkanAPI) PhysicalDeviceFeatures(device vk.PhysicalDevice) vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(device, &features)
	features.Deref()
	return features
}

func (a *vulkanAPI) PhysicalDeviceMemory(device vk.PhysicalDevice) vk.DeviceSize {
	var properties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(device, &properties)
	properties.Deref()

	var total vk.DeviceSize
	for i := uint32(0); i < properties.MemoryHeapCount; i++ {
		properties.MemoryHeaps[i].Deref()
		total += properties.MemoryHeaps[i].Size
	}
	return total
}

func (a *vulkanAPI) DeviceExtensionNames(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties")
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties")
	}
	names := make([]string, 0, count)
	for _, property := range properties {
		property.Deref()
		names = append(names, vk.ToString(property.ExtensionName[:]))
	}
	return names, nil
}

func (a *vulkanAPI) DeviceLayerNames(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceLayerProperties")
	}
	properties := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceLayerProperties")
	}
	names := make([]string, 0, count)
	for _, property := range properties {
		property.Deref()
		names = append(names, vk.ToString(property.LayerName[:]))
	}
	return names, nil
}

func (a *vulkanAPI) CreateDevice(physicalDevice vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	var device vk.Device
	if err := vk.Error(vk.CreateDevice(physicalDevice, info, nil, &device)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDevice")
	}
	return device, nil
}

func (a *vulkanAPI) DestroyDevice(device vk.Device) {
	vk.DestroyDevice(device, nil)
}

func (a *vulkanAPI) DeviceQueue(device vk.Device, familyIndex, queueIndex uint32) vk.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(device, familyIndex, queueIndex, &queue)
	return queue
}

func (a *vulkanAPI) DeviceWaitIdle(device vk.Device) error {
	if err := vk.Error(vk.DeviceWaitIdle(device)); err != nil {
		return errors.Wrap(err, "vk.DeviceWaitIdle")
	}
	return nil
}
