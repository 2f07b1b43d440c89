// Copyright (c) 2023 deluxo
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/deluxo/vkcore/core"
)

func TestInstanceEnablesRequestedNames(t *testing.T) {
	api := newFixtureAPI(t)
	instance := newTestInstance(t, api, core.InstanceConfiguration{
		Extensions: []string{"VK_KHR_surface"},
		Layers:     []string{core.ValidationLayerName},
	})

	extensions := instance.Extensions()
	if len(extensions) != 1 || extensions[0] != "VK_KHR_surface" {
		t.Errorf("unexpected extensions: %v", extensions)
	}
	layers := instance.Layers()
	if len(layers) != 1 || layers[0] != core.ValidationLayerName {
		t.Errorf("unexpected layers: %v", layers)
	}
	if instance.Handle() == nil {
		t.Error("instance has no handle")
	}
	if err := instance.Destroy(); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
}

func TestInstanceFailsOnMissingExtension(t *testing.T) {
	api := newFixtureAPI(t)

	_, err := core.NewVulkanInstance(api, core.InstanceConfiguration{
		Extensions: []string{"VK_KHR_surface", "VK_NO_SUCH_extension"},
	})
	if !errors.Is(err, core.ErrUnsupportedExtension) {
		t.Fatalf("expected ErrUnsupportedExtension, got %v", err)
	}
	if !strings.Contains(err.Error(), "VK_NO_SUCH_extension") {
		t.Errorf("error does not name the missing extension: %v", err)
	}
}

func TestInstanceFailsOnMissingLayer(t *testing.T) {
	api := newFixtureAPI(t)

	_, err := core.NewVulkanInstance(api, core.InstanceConfiguration{
		Layers: []string{"VK_LAYER_NO_SUCH"},
	})
	if !errors.Is(err, core.ErrUnsupportedLayer) {
		t.Fatalf("expected ErrUnsupportedLayer, got %v", err)
	}
	if !strings.Contains(err.Error(), "VK_LAYER_NO_SUCH") {
		t.Errorf("error does not name the missing layer: %v", err)
	}
}

func TestDebugModeEnablesValidationAndCallback(t *testing.T) {
	api := newFixtureAPI(t)
	instance := newTestInstance(t, api, core.InstanceConfiguration{DebugMode: true})

	if !containsString(instance.Layers(), core.ValidationLayerName) {
		t.Errorf("validation layer not enabled: %v", instance.Layers())
	}
	if !containsString(instance.Extensions(), core.DebugReportExtensionName) {
		t.Errorf("debug report extension not enabled: %v", instance.Extensions())
	}
	if api.debugInstalled != 1 {
		t.Errorf("debug callback installed %d times, want 1", api.debugInstalled)
	}
	if err := instance.Destroy(); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
}

func TestDebugModeFailsWithoutValidationLayer(t *testing.T) {
	api := newFixtureAPI(t)
	api.instanceLayers = []string{"VK_LAYER_LUNARG_api_dump"}

	_, err := core.NewVulkanInstance(api, core.InstanceConfiguration{DebugMode: true})
	if !errors.Is(err, core.ErrUnsupportedLayer) {
		t.Fatalf("expected ErrUnsupportedLayer, got %v", err)
	}
}

func TestPhysicalDevicesSnapshotsEveryDevice(t *testing.T) {
	api := newFixtureAPI(t)
	instance := newTestInstance(t, api, core.InstanceConfiguration{})

	devices, err := instance.PhysicalDevices()
	if err != nil {
		t.Fatalf("enumeration failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if err := instance.Destroy(); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
}

func TestPhysicalDevicesFailsWhenNoneFound(t *testing.T) {
	api := newFixtureAPI(t)
	api.devices = nil
	instance := newTestInstance(t, api, core.InstanceConfiguration{})

	_, err := instance.PhysicalDevices()
	if !errors.Is(err, core.ErrNoDevicesFound) {
		t.Fatalf("expected ErrNoDevicesFound, got %v", err)
	}
}

func TestPhysicalDevicesReportsEnumerationFailure(t *testing.T) {
	api := newFixtureAPI(t)
	api.enumerateErr = errors.New("device lost")
	instance := newTestInstance(t, api, core.InstanceConfiguration{})

	_, err := instance.PhysicalDevices()
	if !errors.Is(err, core.ErrEnumerationFailed) {
		t.Fatalf("expected ErrEnumerationFailed, got %v", err)
	}
}

func TestDestroyRefusesWhileDevicesAlive(t *testing.T) {
	api := newFixtureAPI(t)
	instance := newTestInstance(t, api, core.InstanceConfiguration{})

	devices, err := instance.PhysicalDevices()
	if err != nil {
		t.Fatalf("enumeration failed: %v", err)
	}
	plan := core.NewQueueFamilyInfo(0)
	if err := plan.AddQueuePriority(1.0); err != nil {
		t.Fatal(err)
	}
	logical, err := core.NewVulkanDevice(instance, devices[0], core.DeviceConfiguration{
		QueueFamilies: []*core.QueueFamilyInfo{plan},
	})
	if err != nil {
		t.Fatalf("device creation failed: %v", err)
	}

	if err := instance.Destroy(); !errors.Is(err, core.ErrInstanceInUse) {
		t.Fatalf("expected ErrInstanceInUse, got %v", err)
	}
	if api.instancesDestroyed != 0 {
		t.Error("instance was destroyed despite live device")
	}

	if err := logical.Destroy(); err != nil {
		t.Fatalf("device destroy failed: %v", err)
	}
	if err := instance.Destroy(); err != nil {
		t.Fatalf("destroy after device teardown failed: %v", err)
	}
	if api.instancesDestroyed != 1 {
		t.Errorf("instance destroyed %d times, want 1", api.instancesDestroyed)
	}
}

func containsString(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
