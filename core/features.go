package core

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	vk "github.com/vulkan-go/vulkan"
)

// Feature names separate the owning extension from the field with a slash,
// e.g. "VK_EXT_descriptor_indexing/ShaderSampledImageArrayNonUniformIndexing".
const extensionFeatureSeparator = "/"

// FeatureSet is a named set of capability flags. Core features use the
// binding's PhysicalDeviceFeatures field names (e.g. "SamplerAnisotropy");
// extension-defined features are qualified with the extension that owns
// them. The same type serves as a request (what the caller wants) and a
// report (what a device supports), and requests are checked against reports
// with plain set intersection.
//
// A nil FeatureSet reads as empty.
type FeatureSet struct {
	enabled map[string]bool
}

// NewFeatureSet returns a set with the given core feature names enabled.
func NewFeatureSet(names ...string) *FeatureSet {
	set := &FeatureSet{enabled: make(map[string]bool)}
	for _, name := range names {
		set.Enable(name)
	}
	return set
}

// Enable marks a core feature as requested. Returns the receiver for
// chaining.
func (f *FeatureSet) Enable(name string) *FeatureSet {
	f.enabled[name] = true
	return f
}

// EnableForExtension marks an extension-defined feature as requested. The
// extension is recorded as required, and logical device creation fails if
// it is not part of the enabled extension set.
func (f *FeatureSet) EnableForExtension(extension, name string) *FeatureSet {
	f.enabled[extension+extensionFeatureSeparator+name] = true
	return f
}

// Enabled reports whether the named feature is part of the set.
func (f *FeatureSet) Enabled(name string) bool {
	if f == nil {
		return false
	}
	return f.enabled[name]
}

// Empty reports whether no features are enabled.
func (f *FeatureSet) Empty() bool {
	return f == nil || len(f.enabled) == 0
}

// Len returns the number of enabled features.
func (f *FeatureSet) Len() int {
	if f == nil {
		return 0
	}
	return len(f.enabled)
}

// Names returns the enabled feature names in sorted order.
func (f *FeatureSet) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.enabled))
	for name := range f.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequiredExtensions returns the extensions referenced by
// extension-qualified features, sorted and without duplicates.
func (f *FeatureSet) RequiredExtensions() []string {
	if f == nil {
		return nil
	}
	seen := make(map[string]bool)
	for name := range f.enabled {
		if extension, _, ok := splitExtensionFeature(name); ok {
			seen[extension] = true
		}
	}
	extensions := make([]string, 0, len(seen))
	for extension := range seen {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

// SupportedBy reports whether every feature in the set is also enabled in
// other. An empty set is trivially supported. The predicate is pure and
// deterministic for fixed inputs.
func (f *FeatureSet) SupportedBy(other *FeatureSet) bool {
	if f == nil {
		return true
	}
	for name := range f.enabled {
		if !other.Enabled(name) {
			return false
		}
	}
	return true
}

func (f *FeatureSet) String() string {
	return fmt.Sprintf("FeatureSet{%s}", strings.Join(f.Names(), ", "))
}

// VKFeatures converts the core features of the set into the struct device
// creation expects. Extension-qualified entries have no field there; they
// are negotiated through the extension list instead.
func (f *FeatureSet) VKFeatures() vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	if f == nil {
		return features
	}
	value := reflect.ValueOf(&features).Elem()
	boolType := reflect.TypeOf(vk.Bool32(0))
	for name := range f.enabled {
		if _, _, ok := splitExtensionFeature(name); ok {
			continue
		}
		field := value.FieldByName(name)
		if field.IsValid() && field.Type() == boolType && field.CanSet() {
			field.SetUint(uint64(vk.True))
		}
	}
	return features
}

// featuresFromVK snapshots the driver-reported feature struct into a set
// of enabled core feature names.
func featuresFromVK(features vk.PhysicalDeviceFeatures) *FeatureSet {
	set := NewFeatureSet()
	value := reflect.ValueOf(features)
	structType := value.Type()
	boolType := reflect.TypeOf(vk.Bool32(0))
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.PkgPath != "" || field.Type != boolType {
			continue
		}
		if vk.Bool32(value.Field(i).Uint()) == vk.True {
			set.Enable(field.Name)
		}
	}
	return set
}

func splitExtensionFeature(name string) (extension, feature string, ok bool) {
	i := strings.Index(name, extensionFeatureSeparator)
	if i < 0 {
		return "", "", false
	}
	return name[:i], name[i+len(extensionFeatureSeparator):], true
}
