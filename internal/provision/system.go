package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mosaicdev/mosaic/internal/store"
)

// InitSystem writes the system init sentinel. Returns ErrAppInitialized when
// the sentinel is already present.
func (s *Service) InitSystem(ctx context.Context) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		_, err := st.Documents.Get(ctx, SysInitKey)
		switch {
		case err == nil:
			return ErrAppInitialized
		case !errors.Is(err, store.ErrDocumentNotFound):
			return err
		}
		return st.Documents.Save(ctx, SysInitKey, json.RawMessage(`"true"`))
	})
}

// SysIsInit reports whether the system init sentinel has been written.
func (s *Service) SysIsInit(ctx context.Context) (bool, error) {
	var initialized bool
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		_, err := st.Documents.Get(ctx, SysInitKey)
		switch {
		case err == nil:
			initialized = true
			return nil
		case errors.Is(err, store.ErrDocumentNotFound):
			initialized = false
			return nil
		default:
			return fmt.Errorf("%w: read init sentinel: %v", ErrCallClient, err)
		}
	})
	if err != nil {
		return false, err
	}
	return initialized, nil
}
