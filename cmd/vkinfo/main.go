// vkinfo creates a Vulkan instance, enumerates the physical devices and
// prints their capability report as JSON. Configuration comes from the
// environment (optionally via a .env file):
//
//	VKINFO_APP_NAME   application name reported to the driver
//	VKINFO_DEBUG      "true" enables the validation layer and debug output
//	VKINFO_EXTENSIONS comma-separated extra instance extensions
//	VKINFO_LAYERS     comma-separated extra instance layers
package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/deluxo/vkcore/core"
	"github.com/deluxo/vkcore/device"
)

func main() {
	// Missing .env is fine, the environment itself still applies.
	_ = godotenv.Load()

	cfg := core.InstanceConfiguration{
		Application: core.ApplicationConfiguration{
			Name:    envy.Get("VKINFO_APP_NAME", "vkinfo"),
			Version: core.Version{Major: 1},
		},
		Extensions: splitNames(envy.Get("VKINFO_EXTENSIONS", "")),
		Layers:     splitNames(envy.Get("VKINFO_LAYERS", "")),
		DebugMode:  envy.Get("VKINFO_DEBUG", "false") == "true",
	}

	api, err := core.NewVulkanAPI()
	if err != nil {
		log.WithError(err).Fatal("could not initialise the Vulkan loader")
	}

	instance, err := core.NewVulkanInstance(api, cfg)
	if err != nil {
		log.WithError(err).Fatal("could not create instance")
	}
	log.Debug(instance.String())

	devices, err := instance.PhysicalDevices()
	if err != nil {
		if destroyErr := instance.Destroy(); destroyErr != nil {
			log.WithError(destroyErr).Warn("instance teardown failed")
		}
		log.WithError(err).Fatal("could not enumerate physical devices")
	}

	infos := make([]device.PhysicalDeviceInfo, 0, len(devices))
	for _, d := range devices {
		infos = append(infos, d.Info())
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(infos); err != nil {
		log.WithError(err).Fatal("could not encode device info")
	}

	if err := instance.Destroy(); err != nil {
		log.WithError(err).Fatal("instance teardown failed")
	}
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
