// Package mirror downloads a document's remote images and re-homes them
// under the local images tree, one deterministic path per asset.
package mirror

import (
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"framer2mdx/pkg/fetcher"
	"framer2mdx/pkg/storage"
	"framer2mdx/pkg/taxonomy"
)

type Status int

const (
	StatusPending Status = iota
	StatusDownloaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// AssetRef is one remote image owned by a single document. The ordinal is
// its 1-based first-occurrence position in the parsed body and fixes the
// local filename regardless of download timing.
type AssetRef struct {
	URL     string
	Ordinal int
	// LocalPath is the filesystem destination.
	LocalPath string
	// EmbedPath is the percent-encoded site-root path written into MDX.
	EmbedPath string
	Status    Status
	Err       error
}

// SrcAttr returns what the rendered img element should reference: the local
// mirrored path, or the original remote URL as a stand-in when the download
// failed.
func (a AssetRef) SrcAttr() string {
	if a.Status == StatusDownloaded {
		return a.EmbedPath
	}
	return a.URL
}

type Mirror struct {
	fetcher    *fetcher.Fetcher
	store      *storage.Storage
	logger     *slog.Logger
	workers    int
	forceFetch bool
}

func New(f *fetcher.Fetcher, store *storage.Storage, logger *slog.Logger, workers int, forceFetch bool) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Mirror{fetcher: f, store: store, logger: logger, workers: workers, forceFetch: forceFetch}
}

// Plan assigns ordinals and destination paths to a document's asset URLs in
// first-occurrence order, before any download is dispatched.
func Plan(urls []string, loc taxonomy.Location) []AssetRef {
	refs := make([]AssetRef, len(urls))
	for i, u := range urls {
		ordinal := i + 1
		name := fmt.Sprintf("%s-%d%s", loc.SanitizedTitle, ordinal, Extension(u))
		refs[i] = AssetRef{
			URL:       u,
			Ordinal:   ordinal,
			LocalPath: filepath.Join(loc.ImageDir, name),
			EmbedPath: EncodePath(loc.ImagePrefix + "/" + name),
		}
	}
	return refs
}

// Mirror plans and downloads a document's assets. Downloads run concurrently
// up to the pool bound; a failed asset never blocks the rest, it is marked
// failed and keeps its remote URL as fallback.
func (m *Mirror) Mirror(urls []string, loc taxonomy.Location) []AssetRef {
	refs := Plan(urls, loc)

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.workers)
	for i := range refs {
		wg.Add(1)
		go func(ref *AssetRef) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			m.download(ref)
		}(&refs[i])
	}
	wg.Wait()

	return refs
}

func (m *Mirror) download(ref *AssetRef) {
	if !m.forceFetch && m.store.HasFile(ref.LocalPath) {
		m.logger.Info("asset already mirrored, skipping download", "path", ref.LocalPath)
		ref.Status = StatusDownloaded
		return
	}

	data, err := m.fetcher.Get(ref.URL)
	if err != nil {
		m.logger.Error("failed to download asset", "url", ref.URL, "ordinal", ref.Ordinal, "error", err)
		ref.Status = StatusFailed
		ref.Err = err
		return
	}
	if len(data) == 0 {
		err := fmt.Errorf("empty response body")
		m.logger.Error("failed to download asset", "url", ref.URL, "ordinal", ref.Ordinal, "error", err)
		ref.Status = StatusFailed
		ref.Err = err
		return
	}

	if err := m.store.SaveFile(ref.LocalPath, data); err != nil {
		m.logger.Error("failed to persist asset", "path", ref.LocalPath, "error", err)
		ref.Status = StatusFailed
		ref.Err = err
		return
	}

	ref.Status = StatusDownloaded
}

var knownExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".avif": true,
}

// Extension returns the image extension from a source URL, defaulting to
// .png when absent or unrecognized.
func Extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".png"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if knownExtensions[ext] {
		return ext
	}
	return ".png"
}

// EncodePath percent-encodes every path segment, keeping slashes. The target
// renderer does not reliably decode bare spaces, and url.PathEscape leaves
// sub-delimiters like & unencoded, so every byte outside the unreserved set
// is escaped.
func EncodePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = encodeSegment(part)
	}
	return strings.Join(parts, "/")
}

func encodeSegment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
