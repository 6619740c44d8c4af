package rawstore

import (
	"context"

	perr "spinlog/internal/platform/errors"
)

// Backend names
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Options selects and configures a raw batch store backend
type Options struct {
	Backend string // local or s3; empty means local
	Dir     string // local backend root
	S3      S3Options
}

// Open constructs the configured backend
func Open(ctx context.Context, opt Options) (Store, error) {
	switch opt.Backend {
	case "", BackendLocal:
		if opt.Dir == "" {
			return nil, perr.InvalidArgf("rawstore local backend requires a dir")
		}
		return NewDir(opt.Dir)
	case BackendS3:
		return OpenS3(ctx, opt.S3)
	}
	return nil, perr.InvalidArgf("rawstore unknown backend %q", opt.Backend)
}
