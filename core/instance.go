package core

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Names appended to the request when InstanceConfiguration.DebugMode is
// set. They go through the same availability check as everything else, so
// debug mode on a runtime without the validation layer fails loudly instead
// of running unvalidated.
const (
	ValidationLayerName      = "VK_LAYER_KHRONOS_validation"
	DebugReportExtensionName = "VK_EXT_debug_report"
)

// VulkanInstance owns the top-level API handle. It is the sole gateway for
// physical device enumeration and must outlive every logical device created
// through it; Destroy enforces that ordering.
type VulkanInstance struct {
	api           API
	handle        vk.Instance
	layers        []string
	extensions    []string
	debugCallback vk.DebugReportCallback
	liveDevices   int
}

// NewVulkanInstance validates the requested layers and extensions against
// the runtime's reported sets and, only if everything is available, creates
// the instance with exactly those names enabled. A missing name fails with
// ErrUnsupportedLayer or ErrUnsupportedExtension listing every absent
// entry; no native object is created in that case.
func NewVulkanInstance(api API, cfg InstanceConfiguration) (*VulkanInstance, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, ValidationLayerName)
		cfg.Extensions = append(cfg.Extensions, DebugReportExtensionName)
	}

	layerRegistry, err := InstanceLayerRegistry(api)
	if err != nil {
		return nil, err
	}
	layers, err := layerRegistry.Resolve(cfg.Layers)
	if err != nil {
		return nil, err
	}

	extensionRegistry, err := InstanceExtensionRegistry(api)
	if err != nil {
		return nil, err
	}
	extensions, err := extensionRegistry.Resolve(cfg.Extensions)
	if err != nil {
		return nil, err
	}

	appInfo := cfg.Application.vkApplicationInfo()
	handle, err := api.CreateInstance(&vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	})
	if err != nil {
		return nil, driverError(err, "create instance")
	}

	instance := &VulkanInstance{
		api:           api,
		handle:        handle,
		layers:        layers,
		extensions:    extensions,
		debugCallback: vk.NullDebugReportCallback,
	}

	if cfg.DebugMode {
		callback, err := api.CreateDebugCallback(handle, debugReportCallback)
		if err != nil {
			// Diagnostics are best effort, the instance itself is fine.
			log.WithError(err).Warn("vkcore: could not install debug callback")
		} else {
			instance.debugCallback = callback
		}
	}

	return instance, nil
}

// Handle returns the native instance handle. The handle stays owned by the
// VulkanInstance; copies must not outlive it.
func (i *VulkanInstance) Handle() vk.Instance {
	return i.handle
}

// Layers returns the layer names the instance was created with.
func (i *VulkanInstance) Layers() []string {
	names := make([]string, len(i.layers))
	copy(names, i.layers)
	return names
}

// Extensions returns the extension names the instance was created with.
func (i *VulkanInstance) Extensions() []string {
	names := make([]string, len(i.extensions))
	copy(names, i.extensions)
	return names
}

// PhysicalDevices enumerates the physical devices known to the instance
// and captures a full capability snapshot of each: properties, queue
// family layout, supported features, extension and layer sets, and memory
// size. Snapshots are taken eagerly, exactly once, and stay valid until
// the instance is destroyed.
//
// Fails with ErrNoDevicesFound when the driver reports no devices, and
// with ErrEnumerationFailed when a driver call fails mid-enumeration.
func (i *VulkanInstance) PhysicalDevices() (PhysicalDeviceSlice, error) {
	handles, err := i.api.EnumeratePhysicalDevices(i.handle)
	if err != nil {
		return nil, enumerationError(err)
	}
	if len(handles) == 0 {
		return nil, errors.Wrap(ErrNoDevicesFound, "instance reports zero physical devices")
	}

	devices := make(PhysicalDeviceSlice, 0, len(handles))
	for _, handle := range handles {
		extensions, err := i.api.DeviceExtensionNames(handle)
		if err != nil {
			return nil, enumerationError(err)
		}
		layers, err := i.api.DeviceLayerNames(handle)
		if err != nil {
			return nil, enumerationError(err)
		}
		properties := i.api.PhysicalDeviceProperties(handle)
		devices = append(devices, &PhysicalDevice{
			handle:        handle,
			name:          vk.ToString(properties.DeviceName[:]),
			properties:    properties,
			queueFamilies: i.api.PhysicalDeviceQueueFamilies(handle),
			features:      featuresFromVK(i.api.PhysicalDeviceFeatures(handle)),
			extensions:    extensions,
			layers:        layers,
			memory:        i.api.PhysicalDeviceMemory(handle),
		})
	}
	return devices, nil
}

// Destroy releases the instance handle. It fails with ErrInstanceInUse
// while logical devices created from this instance are still alive; those
// must be destroyed first. Calling Destroy twice on the same instance is a
// contract violation, as is using the instance or any physical device
// snapshot afterwards.
func (i *VulkanInstance) Destroy() error {
	if i.liveDevices > 0 {
		return errors.Wrapf(ErrInstanceInUse,
			"%d logical device(s) still alive, destroy them first", i.liveDevices)
	}
	if i.debugCallback != vk.NullDebugReportCallback {
		i.api.DestroyDebugCallback(i.handle, i.debugCallback)
		i.debugCallback = vk.NullDebugReportCallback
	}
	i.api.DestroyInstance(i.handle)
	i.handle = nil
	return nil
}

func (i *VulkanInstance) String() string {
	return fmt.Sprintf("VulkanInstance{layers: [%s], extensions: [%s]}",
		strings.Join(i.layers, ", "), strings.Join(i.extensions, ", "))
}

func (i *VulkanInstance) attachDevice() {
	i.liveDevices++
}

func (i *VulkanInstance) releaseDevice() {
	i.liveDevices--
}

// debugReportCallback routes validation layer output through logrus at a
// level matching the report severity.
func debugReportCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	entry := log.WithFields(log.Fields{
		"layer": pLayerPrefix,
		"code":  messageCode,
	})
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		entry.Error(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		entry.Warn(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		entry.Warn(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		entry.Debug(pMessage)
	default:
		entry.Info(pMessage)
	}
	return vk.Bool32(vk.False)
}
