package content

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/webtop-os/webtop/internal/shared/types"
)

// Export writes every bucket to w as a tar.gz archive. Entries are laid
// out as <bucket>/<uuid>_<name> so extraction stays collision-free even
// when display names repeat across files.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	now := time.Now()

	for _, bucket := range types.AllBuckets() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		entries, err := s.GetAll(ctx, bucket)
		if err != nil {
			return err
		}

		uuids := make([]string, 0, len(entries))
		for uuid := range entries {
			uuids = append(uuids, uuid)
		}
		sort.Strings(uuids)

		for _, uuid := range uuids {
			entry := entries[uuid]
			hdr := &tar.Header{
				Name:     fmt.Sprintf("%s/%s_%s", bucket, uuid, archiveName(entry.Name)),
				Mode:     0o644,
				Size:     int64(len(entry.Content)),
				ModTime:  now,
				Typeflag: tar.TypeReg,
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return fmt.Errorf("export %s/%s: %w", bucket, uuid, err)
			}
			if _, err := tw.Write(entry.Content); err != nil {
				return fmt.Errorf("export %s/%s: %w", bucket, uuid, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("export archive: %w", err)
	}
	return gz.Close()
}

// archiveName strips path separators from a display name
func archiveName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		return "unnamed"
	}
	return name
}
