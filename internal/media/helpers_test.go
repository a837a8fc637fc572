package media

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ObjectStore.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	keys    []string
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("bucket unavailable")
	}
	m.objects[key] = data
	m.types[key] = contentType
	m.keys = append(m.keys, key)
	return nil
}

func (m *memStore) PublicURL(key string) string { return "https://media.test/" + key }

func (m *memStore) Owns(ref string) bool { return strings.HasPrefix(ref, "https://media.test/") }

func (m *memStore) Name() string { return "memory" }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type zipEntry struct {
	name string
	data []byte
}

// buildZip writes entries uncompressed so tests can corrupt payload bytes
// in place.
func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		require.NoError(t, err)
		if e.data != nil {
			_, err = w.Write(e.data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// corruptEntry flips the first payload byte of the named entry.
func corruptEntry(t *testing.T, archive []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		offset, err := f.DataOffset()
		require.NoError(t, err)
		out := append([]byte(nil), archive...)
		out[offset] ^= 0xFF
		return out
	}
	t.Fatalf("entry %s not found", name)
	return nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
