/*
Package core handles the boilerplate of bringing Vulkan up and tearing it
down again: creating an instance with a validated set of layers and
extensions, describing the physical devices the driver reports, and building
a logical device with the queues an application asked for.

Vulkan performs almost no negotiation on behalf of the application. Every
optional capability, be it a layer, an extension or a device feature, must
be asked for by name and is only legal to use if the driver reported it as
available. Getting this wrong tends to surface as a crash deep inside the
driver rather than a friendly error. This package front-loads all of that
checking: requested names are resolved against driver-reported snapshots
before any native object is created, and failures come back as typed errors
naming exactly what was missing.

The usual flow:

	api, err := core.NewVulkanAPI()
	instance, err := core.NewVulkanInstance(api, core.InstanceConfiguration{
		Application: core.ApplicationConfiguration{Name: "demo"},
	})
	devices, err := instance.PhysicalDevices()
	chosen := devices.FilterQueueFlags(vk.QueueFlags(vk.QueueComputeBit))[0]

	plan := core.NewQueueFamilyInfo(0)
	plan.AddQueuePriority(1.0)

	device, err := core.NewVulkanDevice(instance, chosen, core.DeviceConfiguration{
		QueueFamilies: []*core.QueueFamilyInfo{plan},
	})
	queue, err := device.Queue(0, 0)

	// ... out of scope: swapchains, pipelines, command submission ...

	device.Destroy()
	instance.Destroy()

Teardown order is strict: every logical device must be destroyed before the
instance that produced it. The instance keeps a count of live devices and
refuses to be destroyed while any remain. Destroying the same object twice,
or using a handle after its owner was destroyed, is a contract violation
that this package does not (and cannot) detect at runtime.

Creation and teardown are not safe for concurrent use on the same instance
or device; the underlying API requires external synchronization for shared
handles.
*/
package core
