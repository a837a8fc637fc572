package media

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/metrics"
)

// ArchiveIndex maps archive entry base names to their bytes. It is built once
// per import and never modified afterwards, so a single index can be shared
// by every row of a batch. A nil index behaves as an empty one.
type ArchiveIndex struct {
	entries map[string][]byte
	folded  map[string]string // lowercase name -> stored name
	names   []string
}

func newArchiveIndex() *ArchiveIndex {
	return &ArchiveIndex{
		entries: make(map[string][]byte),
		folded:  make(map[string]string),
	}
}

// EmptyArchiveIndex is used when no archive is supplied.
func EmptyArchiveIndex() *ArchiveIndex {
	return newArchiveIndex()
}

// Lookup finds an entry by exact name, then by base name, then by base name
// ignoring case. It returns the stored name with the bytes.
func (i *ArchiveIndex) Lookup(ref string) (string, []byte, bool) {
	if i == nil || len(i.entries) == 0 {
		return "", nil, false
	}
	if data, ok := i.entries[ref]; ok {
		return ref, data, true
	}
	base := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	if data, ok := i.entries[base]; ok {
		return base, data, true
	}
	if name, ok := i.folded[strings.ToLower(base)]; ok {
		return name, i.entries[name], true
	}
	return "", nil, false
}

func (i *ArchiveIndex) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Names returns the indexed names in sorted order.
func (i *ArchiveIndex) Names() []string {
	if i == nil {
		return nil
	}
	out := append([]string(nil), i.names...)
	sort.Strings(out)
	return out
}

func (i *ArchiveIndex) add(name string, data []byte) bool {
	if _, exists := i.entries[name]; exists {
		return false
	}
	i.entries[name] = data
	i.names = append(i.names, name)
	if _, exists := i.folded[strings.ToLower(name)]; !exists {
		i.folded[strings.ToLower(name)] = name
	}
	return true
}

type ArchiveConfig struct {
	Extensions    []string
	MaxEntryBytes int64
}

// ArchiveExtractor turns an uploaded zip bundle into an ArchiveIndex.
type ArchiveExtractor struct {
	exts     ExtensionSet
	maxEntry int64
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewArchiveExtractor(cfg ArchiveConfig, logger *zap.Logger, m *metrics.Metrics) *ArchiveExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveExtractor{
		exts:     NewExtensionSet(cfg.Extensions),
		maxEntry: cfg.MaxEntryBytes,
		logger:   logger,
		metrics:  m,
	}
}

// Extract indexes every recognized image in the archive. It never fails: an
// unreadable container yields an empty index, and an unreadable entry is
// left out while the rest of the archive is still indexed.
func (e *ArchiveExtractor) Extract(data []byte) *ArchiveIndex {
	idx := newArchiveIndex()
	if len(data) == 0 {
		return idx
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("archive could not be opened, continuing without it",
			zap.Int("size", len(data)), zap.Error(err))
		e.metrics.ArchiveEntry("container_corrupt")
		return idx
	}

	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			continue
		}

		base := path.Base(name)
		if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(base, "._") {
			continue
		}
		if _, ok := e.exts.OfName(base); !ok {
			e.metrics.ArchiveEntry("unsupported")
			continue
		}

		payload, err := e.readEntry(f)
		if err != nil {
			e.logger.Debug("skipping archive entry", zap.String("entry", f.Name), zap.Error(err))
			e.metrics.ArchiveEntry("unreadable")
			continue
		}

		if !idx.add(base, payload) {
			e.logger.Debug("duplicate archive entry name, keeping the first",
				zap.String("entry", f.Name))
			e.metrics.ArchiveEntry("duplicate")
			continue
		}
		e.metrics.ArchiveEntry("indexed")
	}

	e.logger.Debug("archive indexed", zap.Int("entries", len(zr.File)), zap.Int("images", idx.Len()))
	return idx
}

var errEntryTooLarge = errors.New("archive entry exceeds size limit")

func (e *ArchiveExtractor) readEntry(f *zip.File) ([]byte, error) {
	if e.maxEntry > 0 && f.UncompressedSize64 > uint64(e.maxEntry) {
		return nil, errEntryTooLarge
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if e.maxEntry > 0 {
		r = io.LimitReader(rc, e.maxEntry+1)
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if e.maxEntry > 0 && int64(len(payload)) > e.maxEntry {
		return nil, errEntryTooLarge
	}
	return payload, nil
}
