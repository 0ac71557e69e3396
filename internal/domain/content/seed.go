package content

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// Asset is one bundled file discovered under the assets directory
type Asset struct {
	UUID   string       `json:"uuid"`
	Name   string       `json:"name"`
	Bucket types.Bucket `json:"bucket"`
	Rel    string       `json:"rel"`
	Size   int64        `json:"size"`
}

// Scanner walks the assets directory and registers every file as a lazy
// source. UUIDs are derived from the relative path, so rescans after a
// restart map to the same store entries and nothing loads twice.
type Scanner struct {
	dir    string
	loader *Loader
	log    *logging.Logger

	mu     sync.RWMutex
	assets []Asset
}

// NewScanner creates a scanner over dir registering into loader
func NewScanner(dir string, loader *Loader, log *logging.Logger) *Scanner {
	return &Scanner{
		dir:    dir,
		loader: loader,
		log:    log.Component("assets"),
	}
}

// AssetUUID derives the stable uuid for an asset's relative path
func AssetUUID(rel string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("webtop-asset:"+rel)).String()
}

// Scan walks the assets directory, registering discovered files as lazy
// sources. A missing directory is not an error; the server simply ships
// without bundled assets.
func (s *Scanner) Scan(ctx context.Context) ([]Asset, error) {
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		s.log.Info("assets directory missing, skipping scan", zap.String("dir", root))
		return nil, nil
	}

	var (
		mu    sync.Mutex
		found []Asset
	)
	conf := fastwalk.Config{Follow: false}

	err = fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		asset := Asset{
			UUID:   AssetUUID(rel),
			Name:   d.Name(),
			Bucket: bucketForAsset(rel, path),
			Rel:    rel,
			Size:   info.Size(),
		}

		s.loader.Register(asset.UUID, Source{
			Bucket: asset.Bucket,
			Name:   asset.Name,
			Path:   path,
		})

		mu.Lock()
		found = append(found, asset)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Rel < found[j].Rel })

	s.mu.Lock()
	s.assets = found
	s.mu.Unlock()

	s.log.Info("assets registered", zap.Int("count", len(found)), zap.String("dir", root))
	return found, nil
}

// Assets returns the discovered assets from the last scan
func (s *Scanner) Assets() []Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Wallpapers returns bundled wallpaper assets
func (s *Scanner) Wallpapers() []Asset {
	var out []Asset
	for _, a := range s.Assets() {
		if a.Bucket == types.BucketWallpapers {
			out = append(out, a)
		}
	}
	return out
}

// bucketForAsset picks the bucket for a bundled file. Anything under a
// wallpapers/ directory is a wallpaper; other images land in images and
// the rest in documents.
func bucketForAsset(rel, path string) types.Bucket {
	top := rel
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		top = rel[:i]
	}
	if top == "wallpapers" {
		return types.BucketWallpapers
	}

	if mtype, err := mimetype.DetectFile(path); err == nil {
		if strings.HasPrefix(mtype.String(), "image/") {
			return types.BucketImages
		}
	}
	return types.BucketDocuments
}
