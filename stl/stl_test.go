package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/godeepar/mapmesh/mesh"
)

func ribbon() mesh.Mesh {
	return mesh.ExtrudeRibbon([]mgl32.Vec2{{0, 0}, {10, 0}}, 2, 1, 0)
}

func TestRoundTrip(t *testing.T) {
	m := ribbon()

	data, err := Encode(m, DefaultHeader)
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(data)) != EstimateSize(m.Len()) || len(data) != 84+50*m.Len() {
		t.Fatalf("encoded %d bytes for %d triangles", len(data), m.Len())
	}

	back, header, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if header != DefaultHeader {
		t.Errorf("header %q", header)
	}
	if back.Len() != m.Len() {
		t.Fatalf("decoded %d triangles, want %d", back.Len(), m.Len())
	}
	for i := range m.Triangles {
		if back.Triangles[i] != m.Triangles[i] {
			t.Fatalf("triangle %d differs: %v != %v", i, back.Triangles[i], m.Triangles[i])
		}
	}
}

func TestLayout(t *testing.T) {
	var m mesh.Mesh
	m.Add(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})

	data, err := Encode(m, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 134 {
		t.Fatalf("size %d, want 134", len(data))
	}
	for _, b := range data[:80] {
		if b != 0 {
			t.Fatalf("empty header should be zero filled")
		}
	}
	if n := binary.LittleEndian.Uint32(data[80:84]); n != 1 {
		t.Fatalf("count %d", n)
	}
	if z := math.Float32frombits(binary.LittleEndian.Uint32(data[92:96])); z != 1 {
		t.Fatalf("normal z = %v, want 1", z)
	}
	if x := math.Float32frombits(binary.LittleEndian.Uint32(data[108:112])); x != 1 {
		t.Fatalf("second vertex x = %v, want 1", x)
	}
	if data[132] != 0 || data[133] != 0 {
		t.Fatalf("attribute bytes must be zero")
	}
}

func TestEmptyMesh(t *testing.T) {
	data, err := Encode(mesh.Mesh{}, DefaultHeader)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 84 {
		t.Fatalf("size %d, want 84", len(data))
	}
	m, _, err := Decode(data)
	if err != nil || !m.IsEmpty() {
		t.Fatalf("decode of empty file: %v, %d triangles", err, m.Len())
	}
}

func TestLongHeaderTruncated(t *testing.T) {
	long := strings.Repeat("x", 120)
	data, err := Encode(ribbon(), long)
	if err != nil {
		t.Fatal(err)
	}
	_, header, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if header != long[:80] {
		t.Fatalf("header length %d", len(header))
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, _, err := Decode(make([]byte, 40)); !errors.Is(err, ErrTruncated) {
		t.Errorf("short input: %v", err)
	}

	data, err := Encode(ribbon(), DefaultHeader)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Decode(data[:len(data)-1]); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("truncated body: %v", err)
	}
	if _, _, err := Decode(append(data, 0)); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("trailing byte: %v", err)
	}

	bad := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(bad[80:], 13)
	if _, _, err := Decode(bad); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("wrong count: %v", err)
	}
}

func TestCountLimit(t *testing.T) {
	if err := checkCount(MaxTriangles); err != nil {
		t.Fatalf("max count rejected: %v", err)
	}
	if err := checkCount(MaxTriangles + 1); !errors.Is(err, ErrTooManyTriangles) {
		t.Fatalf("expected ErrTooManyTriangles, got %v", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ribbon.stl")
	m := ribbon()

	if err := WriteFile(path, m, DefaultHeader); err != nil {
		t.Fatal(err)
	}
	back, _, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != m.Len() {
		t.Fatalf("read %d triangles, want %d", back.Len(), m.Len())
	}
}

// A ribbon written and read back is still a closed solid of the right volume.
func TestRibbonEndToEnd(t *testing.T) {
	fixed, report, err := mesh.ValidateAndFix(ribbon())
	if err != nil {
		t.Fatal(err)
	}
	if !report.Valid() {
		t.Fatalf("report: %s", report.Summary())
	}

	var buf bytes.Buffer
	if err := Write(&buf, fixed, DefaultHeader); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84+50*fixed.Len() {
		t.Fatalf("size %d for %d triangles", buf.Len(), fixed.Len())
	}

	back, _, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.OpenEdges() != 0 {
		t.Fatalf("decoded mesh is not closed")
	}
	if v := back.Volume(); math.Abs(v-20) > 1e-4 {
		t.Fatalf("volume %f, want 20", v)
	}
}
