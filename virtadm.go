package virtadm

// Version is set via ldflags
var Version string

// Build version is set via ldflags
var Build string

// Date is set via ldflags
var Date string

// GetVersion returns the version of the build
// valid versions are: unstable, or a semver version
func GetVersion() string {
	if Version == "" {
		return "unstable"
	}
	return Version
}

// GetBuild returns the git sha of the build
func GetBuild() string {
	if Build == "" {
		return "development"
	}
	return Build
}

// GetDate returns the timestamp of the build
func GetDate() string {
	if Date == "" {
		return "unknown"
	}
	return Date
}

// Info on this version and build
func Info() string {
	return "virtadm " + GetVersion() + " (" + GetBuild() + ", " + GetDate() + ")"
}
