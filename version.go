package slidemodel

import "fmt"

// Version information for the slidemodel engine.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// Version is the full version string of the slidemodel engine. It is also
// written as the AppVersion of generated packages.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
