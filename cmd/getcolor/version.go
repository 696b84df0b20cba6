package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// writeVersion prints the version and, for bug reports, the platform the
// binary is running on. DPI scaling and cursor APIs differ between OS builds.
func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "getcolor v%s\n", version)

	platform := runtime.GOOS
	if info, err := host.Info(); err == nil {
		platform = describePlatform(info)
	}
	fmt.Fprintf(w, "Platform: %s/%s\n", platform, runtime.GOARCH)
}

func describePlatform(info *host.InfoStat) string {
	if info.Platform == "" {
		return info.OS
	}
	s := info.Platform
	if info.PlatformVersion != "" {
		s += " " + info.PlatformVersion
	}
	if info.KernelVersion != "" {
		s += " (kernel " + info.KernelVersion + ")"
	}
	return s
}
