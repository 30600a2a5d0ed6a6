// Command schedule creates a scheduled Zoom meeting from CI and writes its join URL and ID to the step outputs.
package main

import (
	"os"
	// Embed the zone database for minimal CI images.
	_ "time/tzdata"
)

// version will be set at build time
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
