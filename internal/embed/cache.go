package embed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// CacheSuffix replaces the media extension to address the per-media vector
// cache file, e.g. video.mp4 -> video.emb.
const CacheSuffix = ".emb"

const cacheMagic = "CGE1"

// CachePath returns the vector cache path for a media file.
func CachePath(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + CacheSuffix
}

// writeVectors persists vectors as a little-endian float32 array file with a
// small header: magic, vector count, dimension.
func writeVectors(path string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return errors.New("no vectors to write")
	}
	dim := len(vectors[0])
	for i, vector := range vectors {
		if len(vector) != dim {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(vector), dim)
		}
	}

	file, err := os.CreateTemp(filepath.Dir(path), ".emb-*")
	if err != nil {
		return fmt.Errorf("create vector cache: %w", err)
	}
	tmpName := file.Name()
	defer os.Remove(tmpName)

	if err := writePayload(file, vectors, dim); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close vector cache: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace vector cache: %w", err)
	}
	return nil
}

func writePayload(w io.Writer, vectors [][]float32, dim int) error {
	if _, err := w.Write([]byte(cacheMagic)); err != nil {
		return fmt.Errorf("write vector cache: %w", err)
	}
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(dim))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write vector cache: %w", err)
	}
	buf := make([]byte, 4)
	for _, vector := range vectors {
		for _, value := range vector {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(value))
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("write vector cache: %w", err)
			}
		}
	}
	return nil
}

// readVectors loads a vector cache file written by writeVectors.
func readVectors(path string) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < len(cacheMagic)+8 || string(data[:len(cacheMagic)]) != cacheMagic {
		return nil, fmt.Errorf("vector cache %s: bad header", path)
	}
	offset := len(cacheMagic)
	count := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	dim := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
	offset += 8

	want := count * dim * 4
	if len(data)-offset != want {
		return nil, fmt.Errorf("vector cache %s: truncated payload", path)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vector := make([]float32, dim)
		for j := range vector {
			vector[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4]))
			offset += 4
		}
		vectors[i] = vector
	}
	return vectors, nil
}
