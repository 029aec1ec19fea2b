package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression identifies the compression applied to a stored index.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
)

// DefaultMaxDecoderMemory bounds the memory used to decompress an index.
const DefaultMaxDecoderMemory = 256 << 20

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression parses a compression name.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("invalid compression: %q (valid: none, zstd)", s)
	}
}

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Compress applies c to data.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	default:
		return nil, fmt.Errorf("pathindex: unknown compression %d", c)
	}
}

// Decompress returns data unchanged unless it is a zstd frame, in which case
// it is decoded with at most maxMemory bytes (0 disables the limit).
func Decompress(data []byte, maxMemory uint64) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	opts := make([]zstd.DOption, 0, 1)
	if maxMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(maxMemory))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrCorrupt, err)
	}
	return out, nil
}
