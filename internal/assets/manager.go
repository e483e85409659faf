// Package assets owns the consistency contract between a record and its
// externally stored binary objects. It is the only component that talks to
// both the asset store and the document store within one logical operation.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"devfolio/internal/apperr"
	"devfolio/internal/database"
)

// BlobStore is the asset-store contract the manager composes with a
// repository. Destroy must report apperr.ErrNotFound for missing objects.
type BlobStore interface {
	Upload(ctx context.Context, folder, ext string, reader io.Reader, size int64, contentType string) (database.AssetRef, error)
	Destroy(ctx context.Context, publicID string) error
}

// Upload describes one inbound binary destined for the asset store.
type Upload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Folder      string
	Ext         string
}

// Manager sequences asset-store and document-store calls so that a failure
// at any step never strands an orphaned object or a dangling reference.
type Manager struct {
	store  BlobStore
	logger *slog.Logger
}

func NewManager(store BlobStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger}
}

// CreateWithAsset uploads the blob (if any), then runs the record insert
// with the resulting reference. If the insert fails after a successful
// upload, the uploaded object is destroyed again: a half-created record
// must not leave a billed orphan behind.
func (m *Manager) CreateWithAsset(ctx context.Context, up *Upload, create func(context.Context, database.AssetRef) error) error {
	if up == nil {
		return create(ctx, database.AssetRef{})
	}

	ref, err := m.store.Upload(ctx, up.Folder, up.Ext, up.Reader, up.Size, up.ContentType)
	if err != nil {
		return fmt.Errorf("upload asset: %w", err)
	}

	if err := create(ctx, ref); err != nil {
		if destroyErr := m.store.Destroy(ctx, ref.PublicID); destroyErr != nil {
			m.logger.Error("compensating destroy failed, asset orphaned",
				slog.String("public_id", ref.PublicID),
				slog.Any("error", destroyErr),
			)
		}
		return err
	}
	return nil
}

// ReplaceAsset uploads the new blob, persists the new reference, and only
// then destroys the previous object. A failed persist therefore never
// leaves the record pointing at a destroyed asset; a failed old-destroy is
// logged but does not roll the record back.
func (m *Manager) ReplaceAsset(ctx context.Context, up *Upload, oldPublicID string, persist func(context.Context, database.AssetRef) error) error {
	if up == nil {
		return errors.New("replace asset: upload is required")
	}

	ref, err := m.store.Upload(ctx, up.Folder, up.Ext, up.Reader, up.Size, up.ContentType)
	if err != nil {
		return fmt.Errorf("upload asset: %w", err)
	}

	if err := persist(ctx, ref); err != nil {
		if destroyErr := m.store.Destroy(ctx, ref.PublicID); destroyErr != nil {
			m.logger.Error("compensating destroy failed, asset orphaned",
				slog.String("public_id", ref.PublicID),
				slog.Any("error", destroyErr),
			)
		}
		return err
	}

	if oldPublicID != "" {
		if err := m.store.Destroy(ctx, oldPublicID); err != nil {
			m.logger.Error("destroy replaced asset failed",
				slog.String("public_id", oldPublicID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// DeleteWithAssets destroys every linked object, then deletes the record.
// Any destroy failure, including a store-reported "not found", aborts
// before the record delete: the record must keep naming the asset until
// the store has confirmed it is gone.
func (m *Manager) DeleteWithAssets(ctx context.Context, refs []database.AssetRef, deleteRecord func(context.Context) error) error {
	for _, ref := range refs {
		if !ref.Present() {
			continue
		}
		if err := m.store.Destroy(ctx, ref.PublicID); err != nil {
			return fmt.Errorf("destroy %q: %v: %w", ref.PublicID, err, apperr.ErrAssetDeletion)
		}
	}
	return deleteRecord(ctx)
}

// DeleteAssetByPublicID is a direct passthrough used for orphan cleanup.
// A missing object surfaces as apperr.ErrNotFound.
func (m *Manager) DeleteAssetByPublicID(ctx context.Context, publicID string) error {
	if err := m.store.Destroy(ctx, publicID); err != nil {
		return fmt.Errorf("destroy %q: %w", publicID, err)
	}
	return nil
}
