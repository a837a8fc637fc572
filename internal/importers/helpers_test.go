package importers

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/portfolio/internal/entities"
)

// buildXLSX writes rows into the first sheet of a new workbook.
func buildXLSX(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// memProjectStore enforces slug uniqueness like the database does.
type memProjectStore struct {
	mu       sync.Mutex
	nextID   uint
	bySlug   map[string]*entities.Project
	projects []*entities.Project
	failWith error
	panicOn  string
}

func newMemProjectStore() *memProjectStore {
	return &memProjectStore{bySlug: map[string]*entities.Project{}}
}

func (s *memProjectStore) Insert(_ context.Context, p *entities.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.panicOn != "" && p.Title == s.panicOn {
		panic("store exploded")
	}
	if s.failWith != nil {
		return s.failWith
	}
	if p.Slug != nil {
		if _, exists := s.bySlug[*p.Slug]; exists {
			return fmt.Errorf("%w: slug %q is already taken", entities.ErrDuplicate, *p.Slug)
		}
	}

	s.nextID++
	p.ID = s.nextID
	s.projects = append(s.projects, p)
	if p.Slug != nil {
		s.bySlug[*p.Slug] = p
	}
	return nil
}

func (s *memProjectStore) get(slug string) *entities.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bySlug[slug]
}
