package importers

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/media"
	"github.com/mrlokans/portfolio/internal/metrics"
)

// ProjectStore persists one project and fills in its ID. A unique
// constraint violation must wrap entities.ErrDuplicate.
type ProjectStore interface {
	Insert(ctx context.Context, project *entities.Project) error
}

// MediaResolver turns spreadsheet media references into stored locations.
type MediaResolver interface {
	Resolve(ctx context.Context, ref string, idx *media.ArchiveIndex) (string, bool)
}

// ArchiveIndexer builds the shared archive lookup once per batch.
type ArchiveIndexer interface {
	Extract(data []byte) *media.ArchiveIndex
}

// Pipeline runs a batch import: read sheet, index archive, then for every
// row normalize -> resolve media -> assign slug -> insert. Rows are handled
// one at a time in sheet order and never affect each other.
type Pipeline struct {
	store     ProjectStore
	resolver  MediaResolver
	extractor ArchiveIndexer
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewPipeline(store ProjectStore, resolver MediaResolver, extractor ArchiveIndexer, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		store:     store,
		resolver:  resolver,
		extractor: extractor,
		logger:    logger,
		metrics:   m,
	}
}

// Import processes a whole spreadsheet. It returns an error only when the
// spreadsheet itself cannot be read; otherwise the report accounts for every
// row exactly once.
func (p *Pipeline) Import(ctx context.Context, spreadsheet, archive []byte) (*Report, error) {
	start := time.Now()

	sheet, err := ReadSpreadsheet(spreadsheet)
	if err != nil {
		return nil, err
	}

	idx := media.EmptyArchiveIndex()
	if p.extractor != nil {
		idx = p.extractor.Extract(archive)
	}

	report := p.ImportRows(ctx, sheet.Rows, idx)

	p.logger.Info("project import finished",
		zap.String("sheet", sheet.Name),
		zap.Int("rows", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("failed", report.Failed()),
		zap.Int("archive_images", idx.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

// ImportRows runs the per-row steps against an already built archive index.
func (p *Pipeline) ImportRows(ctx context.Context, rows []SheetRow, idx *media.ArchiveIndex) *Report {
	report := NewReport()
	for _, row := range rows {
		report.Add(p.ImportRow(ctx, row, idx))
	}
	return report
}

// ImportRow processes a single row. Panics are recovered into a failed
// outcome so one bad row cannot stop the batch.
func (p *Pipeline) ImportRow(ctx context.Context, row SheetRow, idx *media.ArchiveIndex) (out RowOutcome) {
	out = RowOutcome{Row: row.Ordinal, Line: row.Line, State: RowPending}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered panic while importing row",
				zap.Int("row", row.Ordinal), zap.Any("panic", r), zap.Stack("stack"))
			out = p.reject(out, out.State, &RowPanicError{Row: row.Ordinal, Value: r})
		}
		if out.Title == "" {
			out.Title = TitleOf(row.Cells)
		}
		p.record(out)
	}()

	out.State = RowNormalizing
	draft, err := Normalize(row.Ordinal, row.Cells)
	if err != nil {
		return p.reject(out, RowNormalizing, err)
	}
	out.Title = draft.Title

	out.State = RowResolving
	project := p.BuildProject(ctx, draft, idx)

	out.State = RowPersisting
	if err := p.store.Insert(ctx, project); err != nil {
		if errors.Is(err, entities.ErrDuplicate) {
			return p.reject(out, RowPersisting, &PersistenceConstraintError{Row: row.Ordinal, Err: err})
		}
		return p.reject(out, RowPersisting, &PersistenceError{Row: row.Ordinal, Err: err})
	}

	out.State = RowSucceeded
	out.Item = &ReportItem{ID: project.ID, Slug: project.Slug, Title: project.Title}
	return out
}

// BuildProject resolves the draft's media and assigns its slug. Each distinct
// reference is resolved once per row, so a thumbnail that repeats a gallery
// entry shares its stored location.
func (p *Pipeline) BuildProject(ctx context.Context, d *Draft, idx *media.ArchiveIndex) *entities.Project {
	var gallery []string
	var thumbnail string
	if p.resolver != nil {
		resolved := make(map[string]resolvedRef, len(d.GalleryRefs)+1)
		resolve := func(ref string) (string, bool) {
			key := refKey(ref)
			if r, ok := resolved[key]; ok {
				return r.location, r.ok
			}
			loc, ok := p.resolver.Resolve(ctx, ref, idx)
			resolved[key] = resolvedRef{location: loc, ok: ok}
			return loc, ok
		}

		gallery = make([]string, 0, len(d.GalleryRefs))
		for _, ref := range d.GalleryRefs {
			if loc, ok := resolve(ref); ok {
				gallery = append(gallery, loc)
			}
		}
		if d.ThumbnailRef != "" {
			thumbnail, _ = resolve(d.ThumbnailRef)
		}
	}

	if dropped := len(d.GalleryRefs) - len(gallery); dropped > 0 {
		p.logger.Debug("gallery references dropped",
			zap.Int("row", d.Row), zap.Int("dropped", dropped), zap.Int("kept", len(gallery)))
	}
	if d.Configurations.Degraded() {
		p.logger.Debug("configurations kept as plain text", zap.Int("row", d.Row))
	}

	return d.Project(AssignSlug(d), gallery, thumbnail)
}

type resolvedRef struct {
	location string
	ok       bool
}

func refKey(ref string) string {
	return strings.Trim(strings.TrimSpace(ref), `"'`)
}

func (p *Pipeline) reject(out RowOutcome, stage RowState, err error) RowOutcome {
	out.State = RowRejected
	out.FailedAt = stage
	out.Err = err
	out.Item = nil
	return out
}

func (p *Pipeline) record(out RowOutcome) {
	if out.Succeeded() {
		p.metrics.RowOutcome(string(RowSucceeded), "")
		p.logger.Debug("row imported",
			zap.Int("row", out.Row), zap.Uint("id", out.Item.ID), zap.String("title", out.Title))
		return
	}
	kind := Kind(out.Err)
	p.metrics.RowOutcome(string(RowRejected), kind)
	p.logger.Debug("row rejected",
		zap.Int("row", out.Row),
		zap.String("stage", string(out.FailedAt)),
		zap.String("kind", kind),
		zap.String("title", out.Title),
		zap.Error(out.Err),
	)
}
