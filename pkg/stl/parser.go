package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
)

const (
	binaryHeaderSize   = 80
	binaryTriangleSize = 50
)

// ErrTruncated is returned when a binary STL holds fewer triangle records
// than its header announces
var ErrTruncated = errors.New("truncated binary STL")

// Parse reads an STL file and returns a Model
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader reads STL data from a seekable reader.
// Binary files whose header happens to start with "solid" are recognized by
// their size, which must match the triangle count in the header.
func ParseReader(reader io.ReadSeeker) (*Model, error) {
	size, err := reader.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to determine size: %w", err)
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file pointer: %w", err)
	}

	prefix := make([]byte, binaryHeaderSize+4)
	n, err := io.ReadFull(reader, prefix)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	prefix = prefix[:n]

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file pointer: %w", err)
	}

	if isBinary(prefix, size) {
		return parseBinary(reader, size)
	}
	return parseASCII(reader)
}

// isBinary decides the format from the first 84 bytes and the total size
func isBinary(prefix []byte, size int64) bool {
	if len(prefix) >= binaryHeaderSize+4 {
		count := binary.LittleEndian.Uint32(prefix[binaryHeaderSize:])
		if int64(binaryHeaderSize+4)+int64(count)*binaryTriangleSize == size {
			return true
		}
	}
	return !bytes.HasPrefix(bytes.TrimLeft(prefix, " \t\r\n"), []byte("solid"))
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				normal, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid normal: %w", lineNo, err)
				}
				currentNormal = normal
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			vertex, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNo, err)
			}
			vertices = append(vertices, vertex)

		case "endfacet":
			if len(vertices) == 3 {
				model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
			currentNormal = geometry.Vector3{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// binaryFacet mirrors the 50 byte on-disk triangle record
type binaryFacet struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// parseBinary parses a binary STL file of the given total size
func parseBinary(reader io.Reader, size int64) (*Model, error) {
	model := NewModel("")
	buffered := bufio.NewReader(reader)

	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(buffered, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Extract name from header (if present)
	if name := strings.TrimSpace(string(bytes.TrimRight(header, "\x00"))); name != "" {
		model.Name = name
	}

	var triangleCount uint32
	if err := binary.Read(buffered, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	if need := int64(binaryHeaderSize+4) + int64(triangleCount)*binaryTriangleSize; need > size {
		return nil, fmt.Errorf("%w: header announces %d triangles (%d bytes), file has %d bytes",
			ErrTruncated, triangleCount, need, size)
	}

	model.Triangles = make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var facet binaryFacet
		if err := binary.Read(buffered, binary.LittleEndian, &facet); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}

		model.AddTriangle(geometry.NewTriangle(
			geometry.FromFloat32(facet.Normal),
			geometry.FromFloat32(facet.Vertices[0]),
			geometry.FromFloat32(facet.Vertices[1]),
			geometry.FromFloat32(facet.Vertices[2]),
		))
	}

	return model, nil
}
