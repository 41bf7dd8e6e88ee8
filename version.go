// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parsekit

import "github.com/maloquacious/semver"

// Version identifies this build of the engine. The CLI's version
// subcommand reports it.
var Version = semver.Version{
	Major: 0,
	Minor: 1,
	Patch: 0,
	Build: semver.Commit(),
}
