// Package persistence stores gob-encoded index state on disk, optionally
// compressed with zstd or lz4.
package persistence

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the compression applied to a gob stream.
type Codec string

const (
	CodecNone Codec = "none"
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
)

// Every file starts with magic followed by one codec byte. Files without the
// magic are read as plain gob.
var magic = []byte("TSG1")

const (
	codecByteNone byte = 0
	codecByteZstd byte = 1
	codecByteLZ4  byte = 2
)

const dirPerm = 0750

// ParseCodec maps a configuration value to a Codec. The empty string means none.
func ParseCodec(name string) (Codec, error) {
	switch Codec(name) {
	case "", CodecNone:
		return CodecNone, nil
	case CodecZstd:
		return CodecZstd, nil
	case CodecLZ4:
		return CodecLZ4, nil
	default:
		return "", fmt.Errorf("unknown persistence codec %q", name)
	}
}

func (c Codec) header() ([]byte, error) {
	var b byte
	switch c {
	case "", CodecNone:
		b = codecByteNone
	case CodecZstd:
		b = codecByteZstd
	case CodecLZ4:
		b = codecByteLZ4
	default:
		return nil, fmt.Errorf("unknown persistence codec %q", string(c))
	}
	return append(append([]byte{}, magic...), b), nil
}

var zstdEncoders = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil
		}
		return enc
	},
}

// SaveGob encodes object with gob, compresses it with codec and writes it to
// filePath. The file is written to a temporary sibling first and renamed into
// place, so readers never observe a partial file.
func SaveGob(filePath string, object any, codec Codec) (err error) {
	header, err := codec.header()
	if err != nil {
		return err
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", filePath, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
				slog.Warn("failed to remove temporary file", "path", tmpPath, "error", removeErr)
			}
		}
	}()

	buffered := bufio.NewWriter(tmp)
	if _, err = buffered.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", filePath, err)
	}
	if err = encodeCompressed(buffered, object, codec); err != nil {
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if err = buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush file %s: %w", filePath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", filePath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", filePath, err)
	}
	if err = os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filePath, err)
	}
	return nil
}

func encodeCompressed(w io.Writer, object any, codec Codec) error {
	switch codec {
	case CodecZstd:
		enc, ok := zstdEncoders.Get().(*zstd.Encoder)
		if !ok || enc == nil {
			return fmt.Errorf("zstd encoder unavailable")
		}
		defer zstdEncoders.Put(enc)
		enc.Reset(w)
		if err := gob.NewEncoder(enc).Encode(object); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	case CodecLZ4:
		zw := lz4.NewWriter(w)
		if err := gob.NewEncoder(zw).Encode(object); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	default:
		return gob.NewEncoder(w).Encode(object)
	}
}

// LoadGob decodes the file at filePath into objectPointer, detecting the codec
// from the file header. If the file does not exist, it returns os.ErrNotExist,
// allowing callers to handle fresh starts gracefully.
func LoadGob(filePath string, objectPointer any) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", filePath, "error", closeErr)
		}
	}()

	reader := bufio.NewReader(file)
	codec, err := readHeader(reader)
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", filePath, err)
	}

	if err := decodeCompressed(reader, objectPointer, codec); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

// DetectCodec reports the codec a file was written with.
func DetectCodec(filePath string) (Codec, error) {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return "", os.ErrNotExist
		}
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()
	return readHeader(bufio.NewReader(file))
}

func readHeader(r *bufio.Reader) (Codec, error) {
	prefix, err := r.Peek(len(magic) + 1)
	if err != nil && err != io.EOF {
		return "", err
	}
	if len(prefix) < len(magic)+1 || !bytes.Equal(prefix[:len(magic)], magic) {
		return CodecNone, nil
	}

	var codec Codec
	switch prefix[len(magic)] {
	case codecByteNone:
		codec = CodecNone
	case codecByteZstd:
		codec = CodecZstd
	case codecByteLZ4:
		codec = CodecLZ4
	default:
		return "", fmt.Errorf("unknown codec byte %d", prefix[len(magic)])
	}
	if _, err := r.Discard(len(magic) + 1); err != nil {
		return "", err
	}
	return codec, nil
}

func decodeCompressed(r io.Reader, objectPointer any, codec Codec) error {
	switch codec {
	case CodecZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return err
		}
		defer dec.Close()
		return gob.NewDecoder(dec).Decode(objectPointer)
	case CodecLZ4:
		return gob.NewDecoder(lz4.NewReader(r)).Decode(objectPointer)
	default:
		return gob.NewDecoder(r).Decode(objectPointer)
	}
}
