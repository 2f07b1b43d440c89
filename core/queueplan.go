package core

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// QueueFamilyInfo accumulates the queue priorities requested from one
// queue family. It starts with zero queues; each AddQueuePriority call
// requests one more queue from the family. The builder is consumed by
// NewVulkanDevice, which validates the family index and queue count
// against the chosen physical device.
type QueueFamilyInfo struct {
	familyIndex uint32
	priorities  []float32
}

// NewQueueFamilyInfo returns a plan for the given queue family with no
// queues requested yet. The index comes from the physical device's queue
// family snapshot.
func NewQueueFamilyInfo(familyIndex uint32) *QueueFamilyInfo {
	return &QueueFamilyInfo{familyIndex: familyIndex}
}

// AddQueuePriority requests one more queue with the given priority.
// Priorities range from 0.0 to 1.0; drivers may give more resources to
// higher priority queues but are not required to. Out-of-range values fail
// with ErrInvalidPriority here, at construction time, rather than at
// device creation.
func (q *QueueFamilyInfo) AddQueuePriority(priority float32) error {
	if priority < 0.0 || priority > 1.0 {
		return errors.Wrapf(ErrInvalidPriority, "queue priority %v outside [0.0, 1.0]", priority)
	}
	q.priorities = append(q.priorities, priority)
	return nil
}

// FamilyIndex returns the queue family this plan addresses.
func (q *QueueFamilyInfo) FamilyIndex() uint32 {
	return q.familyIndex
}

// QueueCount returns the number of queues requested so far.
func (q *QueueFamilyInfo) QueueCount() int {
	return len(q.priorities)
}

// Priorities returns a copy of the requested priorities in request order.
func (q *QueueFamilyInfo) Priorities() []float32 {
	priorities := make([]float32, len(q.priorities))
	copy(priorities, q.priorities)
	return priorities
}

func (q *QueueFamilyInfo) createInfo() vk.DeviceQueueCreateInfo {
	return vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: q.familyIndex,
		QueueCount:       uint32(len(q.priorities)),
		PQueuePriorities: q.priorities,
	}
}

// validateQueuePlans checks every plan against the device snapshot: the
// family index must exist, each family may appear in at most one plan (the
// native API requires unique queueFamilyIndex entries), and the requested
// count must not exceed what the family provides. An empty plan list is
// legal.
func validateQueuePlans(physicalDevice *PhysicalDevice, plans []*QueueFamilyInfo) error {
	seen := make(map[uint32]bool, len(plans))
	for _, plan := range plans {
		if int(plan.familyIndex) >= len(physicalDevice.queueFamilies) {
			return errors.Wrapf(ErrInvalidQueueFamilyIndex,
				"queue family index %d out of range, %s reports %d families",
				plan.familyIndex, physicalDevice.name, len(physicalDevice.queueFamilies))
		}
		if seen[plan.familyIndex] {
			return errors.Wrapf(ErrInvalidQueueFamilyIndex,
				"queue family %d appears in more than one plan", plan.familyIndex)
		}
		seen[plan.familyIndex] = true
		available := physicalDevice.queueFamilies[plan.familyIndex].QueueCount
		if uint32(len(plan.priorities)) > available {
			return errors.Wrapf(ErrTooManyQueuesRequested,
				"requested %d queues from family %d, only %d available",
				len(plan.priorities), plan.familyIndex, available)
		}
	}
	return nil
}

func queueCreateInfos(plans []*QueueFamilyInfo) []vk.DeviceQueueCreateInfo {
	infos := make([]vk.DeviceQueueCreateInfo, len(plans))
	for i, plan := range plans {
		infos[i] = plan.createInfo()
	}
	return infos
}
