package logging

import (
	"os"
)

// DebugEnv forces debug level logging when set to any non-empty value.
const DebugEnv = "TV_DEBUG"

// DebugEnabled returns true if debug mode is enabled via the TV_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}
