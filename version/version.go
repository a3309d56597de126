// Copyright 2024 Canonical.

// Package version describes the version of the running binaries.
package version

import (
	"runtime/debug"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		VersionInfo.Version = v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			VersionInfo.GitCommit = s.Value
		}
	}
}

// Version describes the current version of the code being run.
type Version struct {
	GitCommit string
	Version   string
}

// VersionInfo is a variable representing the version of the currently
// executing code. It is filled from the build information embedded by
// the Go toolchain where that is available.
var VersionInfo = unknownVersion

var unknownVersion = Version{
	GitCommit: "unknown git commit",
	Version:   "unknown version",
}
