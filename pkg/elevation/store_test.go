package elevation

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hikepath/routepipe/pkg/geo"
)

func encodeGrid(t *testing.T, value int16) []byte {
	t.Helper()
	raw := make([]byte, TileBytes)
	for i := 0; i < GridSize*GridSize; i++ {
		binary.BigEndian.PutUint16(raw[i*2:], uint16(value))
	}
	return raw
}

func gzipRaw(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestStoreLoadTileFromPrimary(t *testing.T) {
	raw := encodeGrid(t, 1234)
	gz := gzipRaw(t, raw)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gz)
	}))
	defer server.Close()

	store, err := NewStore(Options{PrimaryBaseURL: server.URL, FallbackBaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	value, ok, err := store.Elevation(context.Background(), geo.Coordinate{Lat: 47.5, Lon: 11.5})
	if err != nil {
		t.Fatalf("Elevation failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a value")
	}
	if value != 1234.0 {
		t.Errorf("Elevation = %v, want 1234.0", value)
	}
}

func TestStoreFallsBackWhenPrimaryIsNotFound(t *testing.T) {
	raw := encodeGrid(t, 500)

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(raw)
	}))
	defer fallback.Close()

	store, err := NewStore(Options{PrimaryBaseURL: primary.URL, FallbackBaseURL: fallback.URL})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	value, ok, err := store.Elevation(context.Background(), geo.Coordinate{Lat: 47.5, Lon: 11.5})
	if err != nil {
		t.Fatalf("Elevation failed: %v", err)
	}
	if !ok || value != 500.0 {
		t.Errorf("Elevation = (%v, %v), want (500.0, true)", value, ok)
	}
}

func TestStoreElevationsPreservesOrder(t *testing.T) {
	tileValues := map[string]int16{
		"N47E011": 100,
		"N10E020": 200,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		for prefix, v := range tileValues {
			if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
				w.Write(gzipRaw(t, encodeGrid(t, v)))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store, err := NewStore(Options{PrimaryBaseURL: server.URL, FallbackBaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	coords := []geo.Coordinate{
		{Lat: 47.5, Lon: 11.5},
		{Lat: 10.5, Lon: 20.5},
		{Lat: 47.5, Lon: 11.5},
	}

	values, oks, err := store.Elevations(context.Background(), coords)
	if err != nil {
		t.Fatalf("Elevations failed: %v", err)
	}
	want := []float64{100, 200, 100}
	for i := range coords {
		if !oks[i] || values[i] != want[i] {
			t.Errorf("index %d: got (%v,%v), want (%v,true)", i, values[i], oks[i], want[i])
		}
	}
}

func TestStoreClearCacheRemovesDiskFiles(t *testing.T) {
	dir := t.TempDir()
	raw := encodeGrid(t, 42)
	if err := os.WriteFile(filepath.Join(dir, "N47E011.hgt"), raw, 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(Options{CacheDir: dir})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := store.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "N47E011.hgt")); !os.IsNotExist(err) {
		t.Error("expected cached tile file to be removed")
	}
}
