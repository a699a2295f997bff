package version

import "fmt"

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// String returns the application version as a semver string.
func String() string {
	return fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
}

// UserAgent returns the user agent the server identifies itself with.
func UserAgent() string {
	return fmt.Sprintf("/animo-server:%s/", String())
}
