package rawstore

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	perr "spinlog/internal/platform/errors"
)

// Dir stores raw payloads under a local directory. Dev and test backend;
// keys map to file paths verbatim.
type Dir struct {
	root string
}

// NewDir creates root when missing and returns a directory store.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: create %s", root)
	}
	return &Dir{root: root}, nil
}

// Put writes body under key. Temp file plus rename keeps readers from
// observing partial writes.
func (d *Dir) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest := d.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: put %s", key)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".raw-*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: put %s", key)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: put %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: put %s", key)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: put %s", key)
	}
	return nil
}

// Get opens the file for key. The caller closes the reader.
func (d *Dir) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFoundf("rawstore: %s not found", key)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: get %s", key)
	}
	return f, nil
}

// Exists reports whether key is present.
func (d *Dir) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := os.Stat(d.path(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: stat %s", key)
	}
	return true, nil
}

// List returns all keys under prefix in lexical order.
func (d *Dir) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: list %s", prefix)
	}
	sort.Strings(keys)
	return keys, nil
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}
