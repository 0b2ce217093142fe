package cli

import (
	"runtime/debug"

	"github.com/temirov/dirtree/internal/gitstatus"
)

const (
	unknownVersion     = "unknown"
	develModuleVersion = "(devel)"
)

// applicationVersion prefers the module version embedded at build time and
// falls back to describing the repository the binary runs from.
func applicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develModuleVersion {
		return buildInfo.Main.Version
	}
	if described, describeError := gitstatus.Describe("."); describeError == nil {
		return described
	}
	return unknownVersion
}
