package core

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for every failure mode of the negotiation. Returned
// errors carry detail text (the offending names, indexes and counts) and
// wrap one of these so callers can classify them with errors.Is.
var (
	// ErrUnsupportedExtension marks a request for an instance or device
	// extension the driver did not report as available.
	ErrUnsupportedExtension = errors.New("unsupported extension")

	// ErrUnsupportedLayer marks a request for a layer the runtime did not
	// report as available.
	ErrUnsupportedLayer = errors.New("unsupported layer")

	// ErrNoDevicesFound is returned when the instance reports zero
	// physical devices.
	ErrNoDevicesFound = errors.New("no physical devices found")

	// ErrEnumerationFailed marks a driver-level failure while enumerating
	// physical devices or capturing their capabilities.
	ErrEnumerationFailed = errors.New("physical device enumeration failed")

	// ErrInvalidPriority marks a queue priority outside [0.0, 1.0].
	ErrInvalidPriority = errors.New("invalid queue priority")

	// ErrInvalidQueueFamilyIndex marks a queue plan naming a family index
	// the physical device does not have.
	ErrInvalidQueueFamilyIndex = errors.New("invalid queue family index")

	// ErrTooManyQueuesRequested marks a queue plan asking for more queues
	// than the family provides.
	ErrTooManyQueuesRequested = errors.New("too many queues requested")

	// ErrQueueNotFound is returned by VulkanDevice.Queue for a
	// (family, index) pair that was not requested at creation.
	ErrQueueNotFound = errors.New("queue not found")

	// ErrFeatureNotSupported marks a feature request the chosen physical
	// device cannot satisfy, or one whose extension was not enabled.
	ErrFeatureNotSupported = errors.New("feature not supported")

	// ErrInstanceInUse is returned by VulkanInstance.Destroy while logical
	// devices created from the instance are still alive.
	ErrInstanceInUse = errors.New("instance still in use")

	// ErrDriver wraps any native failure code not otherwise classified.
	ErrDriver = errors.New("driver error")
)

// The sentinel goes into the wrap chain, not a mark, so the standard
// library's errors.Is reaches it too.
func unsupportedNames(kind RegistryKind, missing []string) error {
	sentinel := ErrUnsupportedExtension
	if kind == InstanceLayers || kind == DeviceLayers {
		sentinel = ErrUnsupportedLayer
	}
	return errors.Wrapf(sentinel, "missing %s: %s", kind, strings.Join(missing, ", "))
}

func driverError(err error, operation string) error {
	return errors.WithSecondaryError(
		errors.Wrapf(ErrDriver, "%s: %v", operation, err),
		err,
	)
}

func enumerationError(err error) error {
	return errors.WithSecondaryError(
		errors.Wrapf(ErrEnumerationFailed, "%v", err),
		err,
	)
}
