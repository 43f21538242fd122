// Package stl reads and writes binary STL, the triangle format 3D slicers
// consume: an 80 byte header, a little-endian uint32 triangle count and 50
// bytes per triangle.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/godeepar/mapmesh/mesh"
)

const (
	// HeaderSize is the fixed length of the free-form header.
	HeaderSize = 80
	// TriangleSize is the encoded length of one triangle record.
	TriangleSize = 50
	// MaxTriangles is the largest count the header can hold.
	MaxTriangles = math.MaxUint32

	preamble = HeaderSize + 4
)

// DefaultHeader identifies files written by this module.
const DefaultHeader = "mapmesh - City Map STL Generator"

var (
	// ErrTooManyTriangles is returned when a mesh cannot be counted in 32 bits.
	ErrTooManyTriangles = errors.New("triangle count exceeds the STL count field")
	// ErrTruncated is returned when input ends inside the header or count.
	ErrTruncated = errors.New("stl data shorter than header")
	// ErrCountMismatch is returned when the declared count disagrees with the data length.
	ErrCountMismatch = errors.New("declared triangle count does not match data length")
)

// EstimateSize returns the encoded size of a mesh with n triangles.
func EstimateSize(n int) int64 {
	return preamble + int64(n)*TriangleSize
}

// Write encodes m to w. The header is truncated to 80 bytes and zero padded.
func Write(w io.Writer, m mesh.Mesh, header string) error {
	if err := checkCount(uint64(m.Len())); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	var head [preamble]byte
	copy(head[:HeaderSize], header)
	binary.LittleEndian.PutUint32(head[HeaderSize:], uint32(m.Len()))
	if _, err := bw.Write(head[:]); err != nil {
		return err
	}

	var rec [TriangleSize]byte
	for _, t := range m.Triangles {
		putVec(rec[0:], t.Normal)
		putVec(rec[12:], t.Vertices[0])
		putVec(rec[24:], t.Vertices[1])
		putVec(rec[36:], t.Vertices[2])
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Encode returns the STL bytes of m.
func Encode(m mesh.Mesh, header string) ([]byte, error) {
	if err := checkCount(uint64(m.Len())); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(int(EstimateSize(m.Len())))
	if err := Write(&buf, m, header); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m mesh.Mesh, header string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, m, header); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode parses STL bytes. The declared count must match the remaining length
// exactly. The header is returned with trailing zero bytes removed.
func Decode(data []byte) (mesh.Mesh, string, error) {
	if len(data) < preamble {
		return mesh.Mesh{}, "", ErrTruncated
	}
	header := string(bytes.TrimRight(data[:HeaderSize], "\x00"))

	n := binary.LittleEndian.Uint32(data[HeaderSize:preamble])
	body := data[preamble:]
	if uint64(len(body)) != uint64(n)*TriangleSize {
		return mesh.Mesh{}, header, fmt.Errorf("%w: count %d, %d bytes of triangles", ErrCountMismatch, n, len(body))
	}

	m := mesh.New(int(n))
	for i := 0; i < int(n); i++ {
		rec := body[i*TriangleSize : (i+1)*TriangleSize]
		m.AddTriangle(mesh.Triangle{
			Normal:   getVec(rec[0:]),
			Vertices: [3]mgl32.Vec3{getVec(rec[12:]), getVec(rec[24:]), getVec(rec[36:])},
		})
	}
	return m, header, nil
}

// Read consumes r to the end and decodes it.
func Read(r io.Reader) (mesh.Mesh, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return mesh.Mesh{}, "", err
	}
	return Decode(data)
}

// ReadFile decodes the STL file at path.
func ReadFile(path string) (mesh.Mesh, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mesh.Mesh{}, "", err
	}
	return Decode(data)
}

func checkCount(n uint64) error {
	if n > MaxTriangles {
		return fmt.Errorf("%w: %d", ErrTooManyTriangles, n)
	}
	return nil
}

func putVec(b []byte, v mgl32.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v[2]))
}

func getVec(b []byte) mgl32.Vec3 {
	return mgl32.Vec3{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}
