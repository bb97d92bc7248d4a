package capability

import (
	"fmt"
	"strings"
)

// UnavailableError reports that a node cannot run because one or more
// optional capabilities failed to acquire. Builders return it to signal a
// degraded (stubbable) load rather than a hard failure, and stub descriptors
// return it from every invocation.
type UnavailableError struct {
	Missing []string
}

func (e *UnavailableError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("capability %q is unavailable; install it and restart to enable this node", e.Missing[0])
	}
	return fmt.Sprintf("capabilities %s are unavailable; install them and restart to enable this node",
		strings.Join(quoteAll(e.Missing), ", "))
}

func quoteAll(ids []string) []string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	return quoted
}
