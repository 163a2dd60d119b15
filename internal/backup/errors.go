package backup

import (
	"fmt"
	"strings"
)

// ConfigError indicates required configuration was missing or invalid.
// It is raised before any network activity.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf(
		"missing required configuration: %s (provide flags, a config file, or stored credentials)",
		strings.Join(e.Missing, ", "),
	)
}
