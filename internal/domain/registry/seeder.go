package registry

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/shared/id"
	"github.com/webtop-os/webtop/internal/shared/types"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

//go:embed manifests/apps.toml
var rawAppManifest []byte

// appManifest is the embedded description of built-in apps.
type appManifest struct {
	Apps []types.AppDefinition `toml:"apps"`
}

// Package is one installable applet: the definition the registry needs
// plus the blueprint the shell renders. The core never interprets the
// blueprint; it stores and serves it as-is.
type Package struct {
	Definition types.AppDefinition `json:"definition"`
	Blueprint  json.RawMessage     `json:"blueprint,omitempty"`
}

// BundleStore is the slice of the content store the seeder needs for
// applet bundles.
type BundleStore interface {
	Put(ctx context.Context, bucket types.Bucket, uuid string, entry types.Entry) error
	Get(ctx context.Context, bucket types.Bucket, uuid string) (types.Entry, bool, error)
	GetAll(ctx context.Context, bucket types.Bucket) (map[string]types.Entry, error)
	Delete(ctx context.Context, bucket types.Bucket, uuid string) error
}

// Seeder fills the registry: built-ins from the embedded manifest on every
// start, installed applets from the content store's applets bucket.
type Seeder struct {
	registry *Manager
	store    BundleStore
	log      *logging.Logger
}

// NewSeeder creates an app seeder
func NewSeeder(registry *Manager, store BundleStore, log *logging.Logger) *Seeder {
	return &Seeder{
		registry: registry,
		store:    store,
		log:      log.Component("registry"),
	}
}

// SeedBuiltins registers every app in the embedded manifest. The manifest
// ships with the binary, so a parse failure is a build defect and aborts.
func (s *Seeder) SeedBuiltins() error {
	var man appManifest
	if err := toml.Unmarshal(rawAppManifest, &man); err != nil {
		return fmt.Errorf("app manifest: %w", err)
	}

	var loaded, failed int
	for i := range man.Apps {
		if err := s.registry.Register(&man.Apps[i]); err != nil {
			s.log.Error("Built-in app rejected",
				zap.String("app_id", man.Apps[i].ID), zap.Error(err))
			failed++
			continue
		}
		loaded++
	}

	s.log.Info("Built-in apps seeded", zap.Int("loaded", loaded), zap.Int("failed", failed))
	return nil
}

// LoadInstalled registers every applet bundle found in the content store.
// A bundle that no longer decodes is logged and skipped; one bad applet
// must not take down the registry.
func (s *Seeder) LoadInstalled(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	entries, err := s.store.GetAll(ctx, types.BucketApplets)
	if err != nil {
		return fmt.Errorf("read applet bundles: %w", err)
	}

	var loaded, failed int
	for uuid, entry := range entries {
		var pkg Package
		if err := sonic.Unmarshal(entry.Content, &pkg); err != nil {
			s.log.Warn("Skipping undecodable applet bundle",
				zap.String("uuid", uuid), zap.Error(err))
			failed++
			continue
		}
		pkg.Definition.BundleUUID = uuid
		if err := s.registry.Register(&pkg.Definition); err != nil {
			s.log.Warn("Skipping invalid applet definition",
				zap.String("uuid", uuid), zap.Error(err))
			failed++
			continue
		}
		loaded++
	}

	if loaded > 0 || failed > 0 {
		s.log.Info("Installed applets loaded", zap.Int("loaded", loaded), zap.Int("failed", failed))
	}
	return nil
}

// Install persists an applet bundle and registers its definition. The
// bundle write happens first; a definition is never registered without its
// payload on record.
func (s *Seeder) Install(ctx context.Context, pkg Package) (*types.AppDefinition, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no bundle store configured")
	}
	if err := utils.ValidateID(pkg.Definition.ID, "app id", true); err != nil {
		return nil, err
	}
	if existing, ok := s.registry.Get(pkg.Definition.ID); ok && existing.BundleUUID == "" {
		return nil, fmt.Errorf("app id %q belongs to a built-in", pkg.Definition.ID)
	}

	raw, err := sonic.Marshal(pkg)
	if err != nil {
		return nil, fmt.Errorf("encode applet bundle: %w", err)
	}
	if err := utils.ValidateContentSize(len(raw)); err != nil {
		return nil, err
	}

	uuid := pkg.Definition.BundleUUID
	if uuid == "" {
		// Reinstalling overwrites the existing bundle instead of orphaning it.
		if existing, ok := s.registry.Get(pkg.Definition.ID); ok {
			uuid = existing.BundleUUID
		}
	}
	if uuid == "" {
		uuid = id.NewContentID().String()
	}

	if err := s.store.Put(ctx, types.BucketApplets, uuid, types.Entry{
		Name:    pkg.Definition.Name,
		Content: raw,
	}); err != nil {
		return nil, fmt.Errorf("store applet bundle: %w", err)
	}

	pkg.Definition.BundleUUID = uuid
	if err := s.registry.Register(&pkg.Definition); err != nil {
		return nil, err
	}

	s.log.Info("Applet installed",
		zap.String("app_id", pkg.Definition.ID), zap.String("bundle", uuid))
	def := pkg.Definition
	return &def, nil
}

// Uninstall removes an installed applet and its stored bundle. Built-ins
// are refused.
func (s *Seeder) Uninstall(ctx context.Context, appID string) error {
	app, ok := s.registry.Get(appID)
	if !ok {
		return fmt.Errorf("app %q not registered", appID)
	}
	if app.BundleUUID == "" {
		return fmt.Errorf("app %q is a built-in", appID)
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, types.BucketApplets, app.BundleUUID); err != nil {
			return fmt.Errorf("delete applet bundle: %w", err)
		}
	}
	s.registry.Unregister(appID)

	s.log.Info("Applet uninstalled", zap.String("app_id", appID))
	return nil
}

// Bundle returns the stored package for an installed applet.
func (s *Seeder) Bundle(ctx context.Context, appID string) (*Package, error) {
	app, ok := s.registry.Get(appID)
	if !ok {
		return nil, fmt.Errorf("app %q not registered", appID)
	}
	if app.BundleUUID == "" {
		return nil, fmt.Errorf("app %q has no bundle", appID)
	}
	if s.store == nil {
		return nil, fmt.Errorf("no bundle store configured")
	}

	entry, found, err := s.store.Get(ctx, types.BucketApplets, app.BundleUUID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("bundle %s missing from store", app.BundleUUID)
	}

	var pkg Package
	if err := sonic.Unmarshal(entry.Content, &pkg); err != nil {
		return nil, fmt.Errorf("decode applet bundle: %w", err)
	}
	pkg.Definition.BundleUUID = app.BundleUUID
	return &pkg, nil
}
