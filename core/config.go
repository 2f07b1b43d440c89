package core

import vk "github.com/vulkan-go/vulkan"

// Version is used to specify versions of components.
type Version struct {
	Major int
	Minor int
	Patch int
}

// VK returns the packed representation the native API expects.
func (v Version) VK() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// ApplicationConfiguration identifies the application to the driver. Every
// field is optional; the zero value produces a generic identity with API
// version 1.0.0.
type ApplicationConfiguration struct {
	// Name of the application.
	Name string

	// Engine the name of the engine associated with the application.
	Engine string

	// Version the version of the application.
	Version Version

	// APIVersion the minimum Vulkan API version the application expects.
	APIVersion Version
}

func (a ApplicationConfiguration) vkApplicationInfo() vk.ApplicationInfo {
	if a.Name == "" {
		a.Name = "vkcore"
	}
	if a.Engine == "" {
		a.Engine = "vkcore"
	}
	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.Engine),
		ApplicationVersion: a.Version.VK(),
		ApiVersion:         a.APIVersion.VK(),
	}
}

// InstanceConfiguration is used to configure instance creation.
type InstanceConfiguration struct {
	Application ApplicationConfiguration

	// Layers to enable, by name. Every entry must be reported available by
	// the runtime or creation fails.
	Layers []string

	// Extensions to enable, by name. Same contract as Layers.
	Extensions []string

	// DebugMode appends the validation layer and the debug report
	// extension to the request and routes driver diagnostics through the
	// package logger.
	DebugMode bool
}

// DeviceConfiguration is used to configure logical device creation.
type DeviceConfiguration struct {
	// Extensions to enable, checked against the physical device's
	// reported extension set.
	Extensions []string

	// Layers to enable at device level. Modern drivers ignore these, but
	// they are still validated and passed through for compatibility.
	Layers []string

	// Features the device must provide. May be nil for no feature
	// requests.
	Features *FeatureSet

	// QueueFamilies describes the queues to create, one entry per queue
	// family.
	QueueFamilies []*QueueFamilyInfo
}
