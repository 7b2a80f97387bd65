package fetcher

import (
	"classutil-backend/internal/components/assert"
	"classutil-backend/internal/components/telemetry"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const report_dir_fetch = "dir.fetch"

// DirFetcher serves pages from a local mirror of the site. The path of the
// requested url is looked up below the root directory, a path ending in "/"
// maps to its index.html.
type DirFetcher struct {
	root string
	tel  telemetry.API
}

func NewDirFetcher(root string, tel telemetry.API) (DirFetcher, error) {
	assert.NotNil(tel)

	info, err := os.Stat(root)
	if err != nil {
		return DirFetcher{}, fmt.Errorf("open mirror dir: %w", err)
	}
	if !info.IsDir() {
		return DirFetcher{}, fmt.Errorf("mirror '%s' is not a directory", root)
	}

	return DirFetcher{
		root: root,
		tel:  telemetry.NewScopedAPI("fetcher", tel),
	}, nil
}

func (f DirFetcher) Fetch(ctx context.Context, rawUrl string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	name := path.Clean("/" + parsed.Path)
	if strings.HasSuffix(parsed.Path, "/") || parsed.Path == "" {
		name = path.Join(name, "index.html")
	}

	f.tel.ReportDebug(report_dir_fetch, rawUrl, name)
	body, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: not found", ErrBadStatus, rawUrl)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return body, nil
}
