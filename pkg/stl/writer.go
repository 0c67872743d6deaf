package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/philipparndt/meshsimplify/pkg/geometry"
)

// WriteBinary writes the model in binary STL format
func WriteBinary(w io.Writer, model *Model) error {
	buffered := bufio.NewWriter(w)

	header := make([]byte, binaryHeaderSize)
	copy(header, model.Name)
	if _, err := buffered.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(buffered, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, triangle := range model.Triangles {
		facet := binaryFacet{
			Normal:   triangle.Normal.Float32(),
			Vertices: [3][3]float32{triangle.V1.Float32(), triangle.V2.Float32(), triangle.V3.Float32()},
		}
		if err := binary.Write(buffered, binary.LittleEndian, &facet); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return buffered.Flush()
}

// WriteASCII writes the model in ASCII STL format
func WriteASCII(w io.Writer, model *Model) error {
	buffered := bufio.NewWriter(w)
	name := model.Name

	fmt.Fprintf(buffered, "solid %s\n", name)
	for _, triangle := range model.Triangles {
		fmt.Fprintf(buffered, "  facet normal %s\n", formatCoords(triangle.Normal))
		fmt.Fprintln(buffered, "    outer loop")
		for _, v := range triangle.Vertices() {
			fmt.Fprintf(buffered, "      vertex %s\n", formatCoords(v))
		}
		fmt.Fprintln(buffered, "    endloop")
		fmt.Fprintln(buffered, "  endfacet")
	}
	fmt.Fprintf(buffered, "endsolid %s\n", name)

	return buffered.Flush()
}

func formatCoords(v geometry.Vector3) string {
	return strconv.FormatFloat(v.X, 'e', -1, 32) + " " +
		strconv.FormatFloat(v.Y, 'e', -1, 32) + " " +
		strconv.FormatFloat(v.Z, 'e', -1, 32)
}

// Save writes the model to a file, binary unless ascii is set
func Save(filename string, model *Model, ascii bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if ascii {
		err = WriteASCII(file, model)
	} else {
		err = WriteBinary(file, model)
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	return file.Close()
}
