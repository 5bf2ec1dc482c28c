// STL (stereolithography) parser for binary and text triangle lists.
package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	stlHeaderSize   = 80
	stlRecordSize   = 50 // normal + 3 vertices (12 float32) + uint16 attribute
	stlPreambleSize = stlHeaderSize + 4

	// stlSniffLen is how much of a "solid"-prefixed file is scanned for NUL
	// bytes before it is trusted to be text.
	stlSniffLen = 1024

	// stlCountSlack bounds how far a declared triangle count may overshoot
	// the data before the preamble is treated as garbage rather than a
	// truncated file.
	stlCountSlack = 16
)

// Format identifies which STL variant a mesh was read from.
type Format int

const (
	FormatBinary Format = iota
	FormatASCII
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatASCII:
		return "ascii"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// Triangle is a single facet: a face normal and three vertex positions.
type Triangle struct {
	Normal   [3]float32
	Vertices [3][3]float32
}

// Mesh is an ordered list of triangles as read from a file.
type Mesh struct {
	Name      string // Solid name (text) or file base name
	Header    string // Binary header text with padding trimmed
	Format    Format
	Triangles []Triangle
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Bounds returns the axis-aligned bounding box of all vertices.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if len(m.Triangles) == 0 {
		return lo, hi
	}
	lo = m.Triangles[0].Vertices[0]
	hi = lo
	for _, tri := range m.Triangles {
		for _, v := range tri.Vertices {
			for i := 0; i < 3; i++ {
				lo[i] = min(lo[i], v[i])
				hi[i] = max(hi[i], v[i])
			}
		}
	}
	return lo, hi
}

// stlRecord is the on-disk layout of one binary facet.
type stlRecord struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// LoadSTL reads and parses an STL file from disk.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Kind: ErrFileNotFound, Err: err}
	}
	mesh, err := ParseSTL(data, filepath.Base(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return mesh, nil
}

// ReadSTL parses STL from a reader. The whole input is buffered to detect the variant.
func ReadSTL(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: name, Kind: ErrFileNotFound, Err: err}
	}
	return ParseSTL(data, name)
}

// ParseSTL parses binary or text STL data. name labels the mesh and errors.
func ParseSTL(data []byte, name string) (*Mesh, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data, name)
	}
	if hasSolidPrefix(data) {
		return parseASCIISTL(data, name)
	}
	if len(data) < stlPreambleSize {
		return nil, parseErr(name, ErrMalformedHeader,
			"%d bytes is neither a text solid nor a binary header", len(data))
	}
	return parseBinarySTL(data, name)
}

// isBinarySTL reports whether data is binary STL. Binary headers may start
// with "solid" too, so a size match or a NUL byte wins over the prefix.
func isBinarySTL(data []byte) bool {
	if len(data) < stlPreambleSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:stlPreambleSize])
	if uint64(len(data)) == stlPreambleSize+uint64(count)*stlRecordSize {
		return true
	}
	if !hasSolidPrefix(data) {
		return true
	}
	sniff := data
	if len(sniff) > stlSniffLen {
		sniff = sniff[:stlSniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}

func hasSolidPrefix(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) >= 5 && strings.EqualFold(string(trimmed[:5]), "solid")
}

func parseBinarySTL(data []byte, name string) (*Mesh, error) {
	if len(data) < stlPreambleSize {
		return nil, parseErr(name, ErrMalformedHeader, "binary header needs %d bytes, got %d", stlPreambleSize, len(data))
	}

	r := bytes.NewReader(data)

	header := make([]byte, stlHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, parseErr(name, ErrMalformedHeader, "reading header")
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, parseErr(name, ErrMalformedHeader, "reading triangle count")
	}

	if uint64(count)*stlRecordSize > uint64(len(data))*stlCountSlack {
		return nil, parseErr(name, ErrMalformedHeader,
			"declared %d triangles cannot fit in %d bytes", count, len(data))
	}

	// Do not trust the declared count for allocation.
	capacity := int(count)
	if avail := r.Len() / stlRecordSize; avail < capacity {
		capacity = avail
	}

	mesh := &Mesh{
		Name:      name,
		Header:    strings.TrimRight(string(header), " \x00"),
		Format:    FormatBinary,
		Triangles: make([]Triangle, 0, capacity),
	}

	var rec stlRecord
	for i := uint32(0); i < count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, parseErr(name, ErrTruncatedData,
				"declared %d triangles, record %d is missing or cut short", count, i)
		}
		if !finite(rec.Normal) || !finite(rec.Vertices[0]) || !finite(rec.Vertices[1]) || !finite(rec.Vertices[2]) {
			return nil, parseErr(name, ErrMalformedRecord, "record %d has a non-finite coordinate", i)
		}
		mesh.Triangles = append(mesh.Triangles, Triangle{
			Normal:   rec.Normal,
			Vertices: rec.Vertices,
		})
	}

	return mesh, nil
}

func parseASCIISTL(data []byte, name string) (*Mesh, error) {
	mesh := &Mesh{
		Name:   name,
		Format: FormatASCII,
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	var (
		tri       Triangle
		vertCount int
		inSolid   bool
		inFacet   bool
		inLoop    bool
	)

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		keyword := strings.ToLower(fields[0])
		if !inSolid && keyword != "solid" {
			return nil, parseErr(name, ErrMalformedHeader, "line %d: expected 'solid', got %q", lineNum, fields[0])
		}

		switch keyword {
		case "solid":
			if inFacet {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: 'solid' inside facet", lineNum)
			}
			inSolid = true
			if len(fields) > 1 && mesh.Name == name {
				mesh.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if inFacet {
				return nil, parseErr(name, ErrTruncatedData, "line %d: facet started before previous endfacet", lineNum)
			}
			if len(fields) != 5 || strings.ToLower(fields[1]) != "normal" {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: expected 'facet normal nx ny nz'", lineNum)
			}
			n, err := parseFloats(fields[2:5])
			if err != nil {
				return nil, &ParseError{Path: name, Kind: ErrMalformedRecord, Detail: fmt.Sprintf("line %d: facet normal", lineNum), Err: err}
			}
			tri = Triangle{Normal: n}
			vertCount = 0
			inFacet = true

		case "outer":
			if !inFacet || len(fields) != 2 || strings.ToLower(fields[1]) != "loop" {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: misplaced 'outer loop'", lineNum)
			}
			inLoop = true

		case "vertex":
			if !inLoop {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: vertex outside facet loop", lineNum)
			}
			if len(fields) != 4 {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: vertex needs x y z", lineNum)
			}
			if vertCount == 3 {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: facet has more than 3 vertices", lineNum)
			}
			v, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, &ParseError{Path: name, Kind: ErrMalformedRecord, Detail: fmt.Sprintf("line %d: vertex", lineNum), Err: err}
			}
			tri.Vertices[vertCount] = v
			vertCount++

		case "endloop":
			if !inLoop {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: 'endloop' without 'outer loop'", lineNum)
			}
			inLoop = false

		case "endfacet":
			if !inFacet {
				return nil, parseErr(name, ErrMalformedRecord, "line %d: 'endfacet' without 'facet'", lineNum)
			}
			if inLoop || vertCount < 3 {
				return nil, parseErr(name, ErrTruncatedData, "line %d: facet has %d of 3 vertices", lineNum, vertCount)
			}
			mesh.Triangles = append(mesh.Triangles, tri)
			inFacet = false

		case "endsolid":
			if inFacet {
				return nil, parseErr(name, ErrTruncatedData, "line %d: solid ended inside a facet", lineNum)
			}
			inSolid = false

		default:
			return nil, parseErr(name, ErrMalformedRecord, "line %d: unknown keyword %q", lineNum, fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: name, Kind: ErrTruncatedData, Detail: "reading text", Err: err}
	}
	if inFacet {
		return nil, parseErr(name, ErrTruncatedData, "input ended inside a facet")
	}

	return mesh, nil
}

func parseFloats(fields []string) ([3]float32, error) {
	var out [3]float32
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(v)
	}
	if !finite(out) {
		return out, fmt.Errorf("non-finite coordinate in %q", strings.Join(fields, " "))
	}
	return out, nil
}

// finite reports whether every component is a real number.
func finite(v [3]float32) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
