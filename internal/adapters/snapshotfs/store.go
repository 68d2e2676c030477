// Package snapshotfs reads collector snapshots from a filesystem tree laid
// out as <root>/<source>/<ref>.json. Refs sort lexically by capture time.
package snapshotfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/ports"
)

const snapshotExt = ".json"

// Store is a read-only snapshot reader.
type Store struct {
	fs   afero.Fs
	root string
}

// New returns a store rooted at root on the OS filesystem.
func New(root string) *Store {
	return NewWithFs(afero.NewOsFs(), root)
}

// NewWithFs returns a store over an arbitrary afero filesystem.
func NewWithFs(fsys afero.Fs, root string) *Store {
	return &Store{fs: afero.NewReadOnlyFs(fsys), root: root}
}

// LatestSnapshot returns the snapshot with the greatest ref for a source.
func (s *Store) LatestSnapshot(ctx context.Context, source string) (domain.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, false, err
	}
	if source == "" || strings.ContainsAny(source, `/\`) || source == "." || source == ".." {
		return domain.Snapshot{}, false, fmt.Errorf("%w: invalid source name %q", domain.ErrFetch, source)
	}

	dir := path.Join(s.root, source)
	entries, err := afero.ReadDir(s.fs, dir)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("%w: list snapshots for %q: %w", domain.ErrFetch, source, err)
	}

	refs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		refs = append(refs, strings.TrimSuffix(name, snapshotExt))
	}
	if len(refs) == 0 {
		return domain.Snapshot{}, false, nil
	}
	sort.Strings(refs)
	latest := refs[len(refs)-1]

	file := path.Join(dir, latest+snapshotExt)
	info, err := s.fs.Stat(file)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("%w: stat %s: %w", domain.ErrFetch, file, err)
	}
	blob, err := afero.ReadFile(s.fs, file)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("%w: read %s: %w", domain.ErrFetch, file, err)
	}
	return domain.Snapshot{
		Source:  source,
		Ref:     latest,
		TakenAt: info.ModTime().UTC(),
		Blob:    blob,
	}, true, nil
}

var _ ports.SnapshotReader = (*Store)(nil)
