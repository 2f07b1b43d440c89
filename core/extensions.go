package core

// RegistryKind says which of the four name spaces a registry resolves
// against. Instance and device level extensions are distinct sets and must
// never be checked against each other.
type RegistryKind int

const (
	InstanceExtensions RegistryKind = iota
	InstanceLayers
	DeviceExtensions
	DeviceLayers
)

func (k RegistryKind) String() string {
	switch k {
	case InstanceExtensions:
		return "instance extensions"
	case InstanceLayers:
		return "instance layers"
	case DeviceExtensions:
		return "device extensions"
	case DeviceLayers:
		return "device layers"
	default:
		return "unknown registry"
	}
}

// ExtensionRegistry resolves requested extension or layer names against an
// immutable snapshot of what the runtime or a physical device reported as
// available. Resolution either enables everything that was asked for or
// fails naming every missing entry; nothing is enabled partially and
// nothing is substituted silently.
type ExtensionRegistry struct {
	kind      RegistryKind
	available []string
}

// NewExtensionRegistry builds a registry over an explicit availability
// snapshot. The query constructors below are the usual way to obtain one;
// this is exported for fixture-driven tests and callers with pre-fetched
// snapshots.
func NewExtensionRegistry(kind RegistryKind, available []string) *ExtensionRegistry {
	names := make([]string, len(available))
	copy(names, available)
	return &ExtensionRegistry{kind: kind, available: names}
}

// InstanceExtensionRegistry snapshots the runtime's available instance
// extensions.
func InstanceExtensionRegistry(api API) (*ExtensionRegistry, error) {
	names, err := api.InstanceExtensionNames()
	if err != nil {
		return nil, driverError(err, "enumerate instance extensions")
	}
	return NewExtensionRegistry(InstanceExtensions, names), nil
}

// InstanceLayerRegistry snapshots the runtime's available layers.
func InstanceLayerRegistry(api API) (*ExtensionRegistry, error) {
	names, err := api.InstanceLayerNames()
	if err != nil {
		return nil, driverError(err, "enumerate instance layers")
	}
	return NewExtensionRegistry(InstanceLayers, names), nil
}

// Kind returns the name space this registry resolves against.
func (r *ExtensionRegistry) Kind() RegistryKind {
	return r.kind
}

// Available returns a copy of the availability snapshot.
func (r *ExtensionRegistry) Available() []string {
	names := make([]string, len(r.available))
	copy(names, r.available)
	return names
}

// Has reports whether a single name is available.
func (r *ExtensionRegistry) Has(name string) bool {
	return containsName(r.available, name)
}

// Missing returns the requested names absent from the snapshot, in request
// order.
func (r *ExtensionRegistry) Missing(requested []string) []string {
	var missing []string
	for _, name := range requested {
		if !r.Has(name) && !containsName(missing, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Resolve checks every requested name against the snapshot and returns the
// enabled set. Duplicate requests are tolerated and collapse to a single
// entry; order of first appearance is kept. If any name is unavailable the
// whole resolution fails with an error naming all missing entries.
func (r *ExtensionRegistry) Resolve(requested []string) ([]string, error) {
	if missing := r.Missing(requested); len(missing) > 0 {
		return nil, unsupportedNames(r.kind, missing)
	}
	enabled := make([]string, 0, len(requested))
	for _, name := range requested {
		if !containsName(enabled, name) {
			enabled = append(enabled, name)
		}
	}
	return enabled, nil
}
