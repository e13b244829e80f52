package ids

import "github.com/segmentio/ksuid"

// New returns a sortable, URL-safe unique id for entity records.
func New() string {
	return ksuid.New().String()
}
