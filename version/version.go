package version

import (
	"fmt"
	"strings"
	"sync"
)

// buildCharacters are the characters allowed in appBuild.
const buildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

const (
	appMajor uint = 0
	appMinor uint = 3
	appPatch uint = 0
)

// appBuild is set at link time with
// '-ldflags "-X github.com/kaspanet/parcelsdk/version.appBuild=foo"'.
var appBuild string

var (
	versionOnce sync.Once
	version     string
)

// Version returns the semantic version of the tools, with the build
// metadata appended when it is well formed.
func Version() string {
	versionOnce.Do(func() {
		version = formatVersion(appMajor, appMinor, appPatch, appBuild)
	})
	return version
}

func formatVersion(major, minor, patch uint, build string) string {
	formatted := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if isValidBuild(build) {
		formatted += "+" + build
	}
	return formatted
}

func isValidBuild(build string) bool {
	if build == "" {
		return false
	}
	for _, r := range build {
		if !strings.ContainsRune(buildCharacters, r) {
			return false
		}
	}
	return true
}
