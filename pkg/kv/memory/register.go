package memory

import (
	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
)

func init() {
	kv.RegisterBackend(kv.BackendMemory, func(cfg kv.Config) (kv.Store, error) {
		return New(), nil
	})
}

// NewStore creates a new in-memory store as a kv.Store.
func NewStore() kv.Store {
	return New()
}
