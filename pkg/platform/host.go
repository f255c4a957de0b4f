package platform

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/sirupsen/logrus"
)

// HostFields describes the host for the startup log line. Facts that
// cannot be read are left out.
func HostFields() logrus.Fields {
	fields := logrus.Fields{
		"goos":   runtime.GOOS,
		"goarch": runtime.GOARCH,
	}

	info, err := host.Info()
	if err != nil {
		logrus.Debugf("failed to read host info: %v", err)
		return fields
	}

	if info.Hostname != "" {
		fields["hostname"] = info.Hostname
	}
	if info.Platform != "" {
		fields["platform"] = info.Platform
	}
	if info.PlatformVersion != "" {
		fields["platformVersion"] = info.PlatformVersion
	}
	if info.KernelVersion != "" {
		fields["kernelVersion"] = info.KernelVersion
	}

	return fields
}
