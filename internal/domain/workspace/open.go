package workspace

import (
	"context"
	"fmt"

	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// OpenKind says what opening a path produced.
type OpenKind string

const (
	// OpenDirectory navigated the window into a folder.
	OpenDirectory OpenKind = "directory"
	// OpenContent fetched a file's payload for the shell to render.
	OpenContent OpenKind = "content"
	// OpenLaunch started (or refocused) an app window.
	OpenLaunch OpenKind = "launch"
)

// OpenResult is the outcome of opening one path. Item is always the
// resolved target; Entry is set for content, Instance for launches.
type OpenResult struct {
	Kind     OpenKind        `json:"kind"`
	Item     *types.FileItem `json:"item"`
	Entry    *types.Entry    `json:"entry,omitempty"`
	Instance *types.Instance `json:"instance,omitempty"`
}

// OpenFile opens whatever lives at path the way a double-click would.
// Aliases resolve first (bounded, so cycles fail instead of spinning);
// directories navigate the window's workspace; app shortcuts launch;
// files fetch their payload, pulling lazily loaded content into the store
// on first touch. iid binds directory navigation to a window and may be
// empty for detached browsing.
func (m *Manager) OpenFile(ctx context.Context, iid, path string) (*OpenResult, error) {
	path = paths.Normalize(path)

	if paths.Parent(path) == paths.Applications {
		return m.launch(paths.Base(path), nil)
	}

	item, ok := m.fs.ResolveAlias(path)
	if !ok {
		return nil, fmt.Errorf("nothing to open at %s", path)
	}

	if item.AppID != "" && (item.IsAlias() || item.Type == types.TypeApplication) {
		return m.launch(item.AppID, item)
	}

	if item.IsDirectory {
		if iid != "" {
			m.NavigateTo(iid, item.Path)
		}
		return &OpenResult{Kind: OpenDirectory, Item: item}, nil
	}

	if item.UUID == "" {
		return nil, fmt.Errorf("%s has no content", item.Path)
	}

	bucket := types.BucketForType(item.Type)
	entry, found, err := m.loader.EnsureLoaded(ctx, bucket, item.UUID)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", item.Path, err)
	}
	if !found {
		return nil, fmt.Errorf("content for %s is missing", item.Path)
	}

	// Lazily registered files carry no size until first opened.
	if item.Size == 0 && len(entry.Content) > 0 {
		if m.fs.Touch(item.Path, int64(len(entry.Content))) {
			item.Size = int64(len(entry.Content))
		}
	}

	return &OpenResult{Kind: OpenContent, Item: item, Entry: &entry}, nil
}

func (m *Manager) launch(appID string, item *types.FileItem) (*OpenResult, error) {
	inst, err := m.instances.Launch(appID, instance.CreateOptions{})
	if err != nil {
		return nil, err
	}
	if item == nil {
		if app, ok := m.registry.Get(appID); ok {
			item = appItem(app)
		}
	}
	return &OpenResult{Kind: OpenLaunch, Item: item, Instance: inst}, nil
}
