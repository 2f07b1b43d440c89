package core

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type queueKey struct {
	family uint32
	index  uint32
}

// VulkanDevice owns a logical device handle and the queue handles obtained
// from it. Queues are weak references into the device: they are valid only
// while the device is alive and are never destroyed separately.
type VulkanDevice struct {
	api            API
	instance       *VulkanInstance
	physicalDevice *PhysicalDevice
	handle         vk.Device
	extensions     []string
	layers         []string
	queues         map[queueKey]vk.Queue
}

// NewVulkanDevice creates a logical device on the chosen physical device.
// All validation happens before the native create call, against the
// device's enumeration snapshot:
//
//   - requested extensions and layers are resolved against the physical
//     device's reported sets (device-level names, not instance-level);
//   - requested features must be supported by the device, and every
//     extension a feature depends on must be in the enabled extension set;
//   - every queue plan must name an existing family and fit its capacity.
//
// Any violation fails with the matching typed error and nothing is
// allocated; creation is all-or-nothing. On success one queue handle per
// requested (family, slot) pair is retrieved and recorded.
func NewVulkanDevice(instance *VulkanInstance, physicalDevice *PhysicalDevice, cfg DeviceConfiguration) (*VulkanDevice, error) {
	extensions, err := physicalDevice.ExtensionRegistry().Resolve(cfg.Extensions)
	if err != nil {
		return nil, err
	}
	layers, err := physicalDevice.LayerRegistry().Resolve(cfg.Layers)
	if err != nil {
		return nil, err
	}

	for _, required := range cfg.Features.RequiredExtensions() {
		if !containsName(extensions, required) {
			return nil, errors.Wrapf(ErrFeatureNotSupported,
				"requested features need extension %s, which is not enabled", required)
		}
	}
	if !physicalDevice.Supports(cfg.Features) {
		return nil, errors.Wrapf(ErrFeatureNotSupported,
			"%s does not support all of %s", physicalDevice.name, cfg.Features)
	}

	if err := validateQueuePlans(physicalDevice, cfg.QueueFamilies); err != nil {
		return nil, err
	}

	features := cfg.Features.VKFeatures()
	infos := queueCreateInfos(cfg.QueueFamilies)
	handle, err := instance.api.CreateDevice(physicalDevice.handle, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(infos)),
		PQueueCreateInfos:       infos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{features},
	})
	if err != nil {
		return nil, driverError(err, "create device")
	}

	queues := make(map[queueKey]vk.Queue)
	for _, plan := range cfg.QueueFamilies {
		for index := uint32(0); index < uint32(plan.QueueCount()); index++ {
			key := queueKey{family: plan.FamilyIndex(), index: index}
			queues[key] = instance.api.DeviceQueue(handle, key.family, key.index)
		}
	}

	instance.attachDevice()
	return &VulkanDevice{
		api:            instance.api,
		instance:       instance,
		physicalDevice: physicalDevice,
		handle:         handle,
		extensions:     extensions,
		layers:         layers,
		queues:         queues,
	}, nil
}

// Handle returns the native device handle. It stays owned by the
// VulkanDevice; copies must not outlive it.
func (d *VulkanDevice) Handle() vk.Device {
	return d.handle
}

// PhysicalDevice returns the snapshot of the device this logical device
// was created on.
func (d *VulkanDevice) PhysicalDevice() *PhysicalDevice {
	return d.physicalDevice
}

// Extensions returns the device extensions enabled at creation.
func (d *VulkanDevice) Extensions() []string {
	names := make([]string, len(d.extensions))
	copy(names, d.extensions)
	return names
}

// Layers returns the device layers enabled at creation.
func (d *VulkanDevice) Layers() []string {
	names := make([]string, len(d.layers))
	copy(names, d.layers)
	return names
}

// Queue returns the handle for the given (family, index) pair. Only
// combinations requested through the queue plans at creation exist; any
// other pair fails with ErrQueueNotFound, there is no fallback.
func (d *VulkanDevice) Queue(familyIndex, queueIndex uint32) (vk.Queue, error) {
	queue, ok := d.queues[queueKey{family: familyIndex, index: queueIndex}]
	if !ok {
		return nil, errors.Wrapf(ErrQueueNotFound,
			"no queue at family %d index %d was requested at creation", familyIndex, queueIndex)
	}
	return queue, nil
}

// QueueCount returns the number of queues created with the device.
func (d *VulkanDevice) QueueCount() int {
	return len(d.queues)
}

// WaitIdle blocks until the device finished all submitted work. Useful
// right before Destroy.
func (d *VulkanDevice) WaitIdle() error {
	if err := d.api.DeviceWaitIdle(d.handle); err != nil {
		return driverError(err, "device wait idle")
	}
	return nil
}

// Destroy releases the device handle and invalidates every queue handle
// obtained from it; the caller must not use them afterwards. The owning
// instance becomes destroyable once its last device is gone. Calling
// Destroy twice is a contract violation.
func (d *VulkanDevice) Destroy() error {
	d.api.DestroyDevice(d.handle)
	d.handle = nil
	d.queues = nil
	d.instance.releaseDevice()
	return nil
}

func (d *VulkanDevice) String() string {
	return fmt.Sprintf("VulkanDevice{%s, %d queues}", d.physicalDevice.name, len(d.queues))
}
