// Package provision implements the configuration provisioning core:
// seeding an organization's global configuration, deriving templates from
// it, and instantiating projects and project sets that conform to the
// provisioned status flows.
package provision

import (
	"github.com/mosaicdev/mosaic/internal/store"
)

// Service is the provisioning use-case layer. Every public method runs
// inside one relational transaction supplied by the TxRunner; a failure at
// any step rolls the whole use case back.
type Service struct {
	runner store.TxRunner
}

// NewService creates the provisioning service over a transaction runner.
func NewService(runner store.TxRunner) *Service {
	return &Service{runner: runner}
}
