package models

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

	"github.com/taigrr/umbra/pkg/math3d"
)

// ErrMalformedSTL is returned for STL data that is neither valid binary nor
// valid ASCII.
var ErrMalformedSTL = errors.New("malformed stl")

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal + 3 vertices (12 float32) + attribute word
)

// LoadSTL reads a binary or ASCII STL file and welds it into an indexed
// mesh. Stored facet normals are ignored; winding defines orientation.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	soup, err := ParseSTL(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return Weld(filepath.Base(path), soup), nil
}

// ParseSTL decodes STL bytes into triangle soup.
func ParseSTL(data []byte) ([][3]math3d.Vec3, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	return parseASCIISTL(bytes.NewReader(data))
}

// isBinarySTL checks the record count against the payload length. Some
// exporters write "solid" into binary headers, so the prefix alone is not
// enough.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return len(data) == stlHeaderSize+4+int(n)*stlRecordSize
}

func parseBinarySTL(data []byte) ([][3]math3d.Vec3, error) {
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	soup := make([][3]math3d.Vec3, 0, n)
	off := stlHeaderSize + 4
	for range n {
		rec := data[off : off+stlRecordSize]
		var tri [3]math3d.Vec3
		for j := range 3 {
			base := 12 + j*12
			tri[j] = math3d.V3(
				float64(readFloat32(rec[base:])),
				float64(readFloat32(rec[base+4:])),
				float64(readFloat32(rec[base+8:])),
			)
		}
		soup = append(soup, tri)
		off += stlRecordSize
	}
	return soup, nil
}

func parseASCIISTL(r io.Reader) ([][3]math3d.Vec3, error) {
	var (
		soup  [][3]math3d.Vec3
		tri   [3]math3d.Vec3
		count int
		line  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "vertex":
			if len(fields) != 4 || count == 3 {
				return nil, fmt.Errorf("line %d: %w", line, ErrMalformedSTL)
			}
			var xyz [3]float64
			for k := range 3 {
				f, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w: %w", line, ErrMalformedSTL, err)
				}
				xyz[k] = f
			}
			tri[count] = math3d.V3(xyz[0], xyz[1], xyz[2])
			count++
		case "endloop":
			if count != 3 {
				return nil, fmt.Errorf("line %d: loop with %d vertices: %w", line, count, ErrMalformedSTL)
			}
			soup = append(soup, tri)
			count = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan stl: %w", err)
	}
	if len(soup) == 0 {
		return nil, fmt.Errorf("no facets: %w", ErrMalformedSTL)
	}
	return soup, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
