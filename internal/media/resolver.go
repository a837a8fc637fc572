package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/metrics"
	"github.com/mrlokans/portfolio/internal/storage"
)

// Storage locations that are durable by construction and never re-uploaded.
var builtinPassthroughPrefixes = []string{"gs://", "s3://"}

// hostLikeRef matches "cdn.example.com/img/a.jpg": a dotted host, a path and
// a file-like suffix, without a scheme.
var hostLikeRef = regexp.MustCompile(`(?i)^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*\.[a-z]{2,}(:\d+)?/\S*\.[a-z0-9]{2,5}(\?\S*)?$`)

var errUnrecognizedType = errors.New("response is not a recognized image type")

type ResolverConfig struct {
	Extensions          []string
	KeyPrefix           string
	PassthroughPrefixes []string
	UserAgent           string
	FetchTimeout        time.Duration
	MaxRemoteBytes      int64
}

// Resolver turns media references from a spreadsheet into durable storage
// locations. A reference that cannot be resolved is dropped; it is never an
// error for the caller.
type Resolver struct {
	exts        ExtensionSet
	keyPrefix   string
	passthrough []string
	store       storage.ObjectStore
	fetcher     *Fetcher
	logger      *zap.Logger
	metrics     *metrics.Metrics
	newKey      func(ext string) string
}

func NewResolver(cfg ResolverConfig, store storage.ObjectStore, client *http.Client, logger *zap.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	passthrough := append([]string(nil), builtinPassthroughPrefixes...)
	if cfg.KeyPrefix != "" {
		passthrough = append(passthrough, cfg.KeyPrefix)
	}
	for _, p := range cfg.PassthroughPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			passthrough = append(passthrough, p)
		}
	}

	r := &Resolver{
		exts:        NewExtensionSet(cfg.Extensions),
		keyPrefix:   cfg.KeyPrefix,
		passthrough: passthrough,
		store:       store,
		fetcher:     NewFetcher(client, cfg.UserAgent, cfg.FetchTimeout, cfg.MaxRemoteBytes),
		logger:      logger,
		metrics:     m,
	}
	r.newKey = func(ext string) string {
		return r.keyPrefix + uuid.NewString() + ext
	}
	return r
}

// ResolveList resolves every reference in order and keeps only the hits. A
// reference repeated in the list is resolved once and reused.
func (r *Resolver) ResolveList(ctx context.Context, refs []string, idx *ArchiveIndex) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]string, len(refs))
	for _, ref := range refs {
		key := strings.Trim(strings.TrimSpace(ref), `"'`)
		loc, ok := seen[key]
		if !ok {
			loc, _ = r.Resolve(ctx, ref, idx)
			seen[key] = loc
		}
		if loc != "" {
			out = append(out, loc)
		}
	}
	return out
}

// Resolve maps one reference to a storage location. The checks run in a
// fixed order: absolute URL, archive entry, known storage location, bare
// host that becomes an https URL. Anything else is ignored.
func (r *Resolver) Resolve(ctx context.Context, ref string, idx *ArchiveIndex) (string, bool) {
	ref = strings.Trim(strings.TrimSpace(ref), `"'`)
	if ref == "" {
		return "", false
	}

	if isAbsoluteHTTP(ref) {
		return r.fromRemote(ctx, ref, metrics.SourceRemote)
	}

	if name, data, ok := idx.Lookup(ref); ok {
		return r.fromArchive(ctx, name, data)
	}

	if r.isPassthrough(ref) {
		r.metrics.MediaResolution(metrics.SourcePassthrough, metrics.OutcomeResolved)
		return ref, true
	}

	if coerced, ok := coerceToURL(ref); ok {
		return r.fromRemote(ctx, coerced, metrics.SourceCoerced)
	}

	r.logger.Debug("ignoring unrecognized media reference", zap.String("ref", ref))
	r.metrics.MediaResolution(metrics.SourceUnknown, metrics.OutcomeIgnored)
	return "", false
}

func (r *Resolver) fromRemote(ctx context.Context, rawURL, source string) (string, bool) {
	dl, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		r.logger.Info("media download failed", zap.String("url", rawURL), zap.Error(err))
		r.metrics.MediaResolution(source, metrics.OutcomeFailed)
		return "", false
	}

	ext, err := r.classifyRemote(rawURL, dl)
	if err != nil {
		r.logger.Info("media download rejected", zap.String("url", rawURL),
			zap.String("content_type", dl.ContentType), zap.Error(err))
		r.metrics.MediaResolution(source, metrics.OutcomeFailed)
		return "", false
	}

	loc, err := r.put(ctx, ext, dl.Data)
	if err != nil {
		r.logger.Warn("failed to store downloaded media", zap.String("url", rawURL), zap.Error(err))
		r.metrics.MediaResolution(source, metrics.OutcomeFailed)
		return "", false
	}

	r.metrics.MediaResolution(source, metrics.OutcomeResolved)
	return loc, true
}

// classifyRemote picks the stored extension: declared Content-Type first,
// then the URL's last path segment, then the bytes themselves.
func (r *Resolver) classifyRemote(rawURL string, dl *Download) (string, error) {
	if ext, ok := r.exts.OfContentType(dl.ContentType); ok {
		return ext, nil
	}
	if u, err := url.Parse(rawURL); err == nil {
		if ext, ok := r.exts.OfName(path.Base(u.Path)); ok {
			return ext, nil
		}
	}
	if ext, ok := r.exts.OfContent(dl.Data); ok {
		return ext, nil
	}
	return "", errUnrecognizedType
}

func (r *Resolver) fromArchive(ctx context.Context, name string, data []byte) (string, bool) {
	ext, _ := r.exts.OfName(name)

	loc, err := r.put(ctx, ext, data)
	if err != nil {
		r.logger.Warn("failed to store archived media", zap.String("entry", name), zap.Error(err))
		r.metrics.MediaResolution(metrics.SourceArchive, metrics.OutcomeFailed)
		return "", false
	}

	r.metrics.MediaResolution(metrics.SourceArchive, metrics.OutcomeResolved)
	return loc, true
}

func (r *Resolver) put(ctx context.Context, ext string, data []byte) (string, error) {
	if r.store == nil {
		return "", fmt.Errorf("no object store configured")
	}
	key := r.newKey(ext)
	if err := r.store.Put(ctx, key, data, ContentTypeFor(ext, data)); err != nil {
		return "", err
	}
	if loc := r.store.PublicURL(key); loc != "" {
		return loc, nil
	}
	return key, nil
}

func (r *Resolver) isPassthrough(ref string) bool {
	if r.store != nil && r.store.Owns(ref) {
		return true
	}
	for _, prefix := range r.passthrough {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

func isAbsoluteHTTP(ref string) bool {
	lower := strings.ToLower(ref)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	u, err := url.Parse(ref)
	return err == nil && u.Host != ""
}

// coerceToURL turns a scheme-less host reference into an https URL.
func coerceToURL(ref string) (string, bool) {
	candidate := strings.TrimPrefix(ref, "//")
	if !hostLikeRef.MatchString(candidate) {
		return "", false
	}
	return "https://" + candidate, true
}
