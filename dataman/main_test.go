package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"

	"github.com/godeepar/mapmesh"
	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/logger"
	"github.com/godeepar/mapmesh/stl"
)

func TestMain(m *testing.M) {
	logger.Set(zap.NewNop())
	os.Exit(m.Run())
}

// newConversionRequest builds the multipart upload the service expects.
// Parts with empty content are left out.
func newConversionRequest(t *testing.T, info string, file []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if info != "" {
		if err := writer.WriteField("info", info); err != nil {
			t.Fatal(err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", "map.geojson")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/data", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	newMux().ServeHTTP(rec, req)
	return rec
}

func sample(t *testing.T) []byte {
	t.Helper()
	raw, err := mapmesh.SampleGEOJSON()
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestConvert(t *testing.T) {
	before := counter.Get("geojson")
	rec := serve(newConversionRequest(t, "name: town\nsize: 150\n", sample(t)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/sla" {
		t.Errorf("content type %q", ct)
	}

	m, header, err := stl.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(header, stl.DefaultHeader) {
		t.Errorf("header %q", header)
	}
	if n, _ := strconv.Atoi(rec.Header().Get("X-Triangles")); n != m.Len() || n == 0 {
		t.Errorf("X-Triangles %q for %d triangles", rec.Header().Get("X-Triangles"), m.Len())
	}
	if counter.Get("geojson") != before+1 {
		t.Error("conversion was not counted")
	}

	id := rec.Header().Get("X-Request-Id")
	got := serve(httptest.NewRequest(http.MethodGet, "/manifest/"+id, nil))
	if got.Code != http.StatusOK {
		t.Fatalf("manifest status %d", got.Code)
	}
	manifest, err := config.DecodeManifest(got.Body)
	if err != nil {
		t.Fatal(err)
	}
	if manifest.ID != id || manifest.Name != "town" || manifest.Size != 150 || manifest.Triangles != m.Len() {
		t.Errorf("manifest %+v", manifest)
	}
}

func TestConvertRejects(t *testing.T) {
	building := geojson.NewFeatureCollection()
	f := geojson.NewPolygonFeature([][][]float64{{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0}}})
	f.SetProperty("building", "yes")
	building.AddFeature(f)
	onlyBuilding, err := building.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	var tests = []struct {
		name string
		req  *http.Request
		want int
	}{
		{"bad config", newConversionRequest(t, "size: -1\n", sample(t)), http.StatusBadRequest},
		{"no file", newConversionRequest(t, "size: 100\n", nil), http.StatusBadRequest},
		{"broken geojson", newConversionRequest(t, "", []byte("{nope")), http.StatusBadRequest},
		{"nothing usable", newConversionRequest(t, "", onlyBuilding), http.StatusUnprocessableEntity},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/data", strings.NewReader("{}")), http.StatusBadRequest},
		{"wrong method", httptest.NewRequest(http.MethodGet, "/data", nil), http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := serve(tt.req)
		if rec.Code != tt.want {
			t.Errorf("%s: status %d, want %d (%s)", tt.name, rec.Code, tt.want, rec.Body.String())
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: no request id", tt.name)
		}
	}
}

func TestUnknownManifest(t *testing.T) {
	if rec := serve(httptest.NewRequest(http.MethodGet, "/manifest/nope", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSample(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/sample", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if _, _, err := stl.Decode(rec.Body.Bytes()); err != nil {
		t.Fatal(err)
	}

	rec = serve(httptest.NewRequest(http.MethodGet, "/sample?get=collection", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if _, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes()); err != nil {
		t.Fatal(err)
	}

	if rec := serve(httptest.NewRequest(http.MethodGet, "/sample?get=dem", nil)); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestManifestsKeepMostRecent(t *testing.T) {
	s := newManifests(2)
	for _, id := range []string{"a", "b", "c"} {
		s.Put(&config.Manifest{ID: id})
	}
	if _, ok := s.Get("a"); ok {
		t.Error("oldest manifest should be dropped")
	}
	if _, ok := s.Get("c"); !ok || s.Len() != 2 {
		t.Errorf("kept %d manifests", s.Len())
	}
}

func TestCountPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apilog")
	counter.Set("geojson", 7)
	counter.Set("sample", 3)
	counter.Set("failed", 1)
	if err := writeCount(path); err != nil {
		t.Fatal(err)
	}

	counter.Set("geojson", 0)
	counter.Set("sample", 0)
	counter.Set("failed", 0)
	if err := loadCount(path); err != nil {
		t.Fatal(err)
	}
	if counter.Get("geojson") != 7 || counter.Get("sample") != 3 || counter.Get("failed") != 1 {
		t.Fatalf("restored %v", counter.values)
	}

	if err := loadCount(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected an error for a missing apilog")
	}
	if counter.Incr("failed") != 2 {
		t.Fatal("Incr")
	}
}

func TestReadCountWritesOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apilog")
	counter.Set("geojson", 0)
	counter.Set("sample", 0)
	counter.Set("failed", 0)

	done := make(chan struct{})
	finished := readCount(path, time.Hour, done)
	counter.Set("sample", 11)
	close(done)

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("final write did not finish")
	}

	counter.Set("sample", 0)
	if err := loadCount(path); err != nil {
		t.Fatal(err)
	}
	if counter.Get("sample") != 11 {
		t.Fatalf("persisted sample count %d, want 11", counter.Get("sample"))
	}
}
