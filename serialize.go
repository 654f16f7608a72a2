package wirebloom

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"
	"k8s.io/klog/v2"
)

// Serialization constants and errors.
const (
	// serializeVersion is the current envelope format version.
	serializeVersion byte = 1

	// headerSize is the size of the envelope header in bytes.
	// Version (1) + K (4) + NumBits (4) + DataLen (4) = 13 bytes
	headerSize = 13

	// checksumSize is the size of the trailing xxh3 checksum.
	checksumSize = 8
)

var (
	// ErrInvalidData is returned when the serialized data is invalid or corrupted.
	ErrInvalidData = errors.New("wirebloom: invalid serialized data")

	// ErrUnsupportedVersion is returned when the serialization version is not supported.
	ErrUnsupportedVersion = errors.New("wirebloom: unsupported serialization version")

	// ErrChecksumMismatch is returned when the trailing checksum does not match the contents.
	ErrChecksumMismatch = errors.New("wirebloom: checksum mismatch")
)

// MarshalBinary encodes the filter together with its parameters.
// The serialized format is:
//   - Version (1 byte): envelope format version
//   - K (4 bytes): number of hash functions (little-endian uint32)
//   - NumBits (4 bytes): number of addressable bits (little-endian uint32)
//   - DataLen (4 bytes): length of the filter bytes (little-endian uint32)
//   - Data (DataLen bytes): the filter bytes exactly as returned by Bytes
//   - Checksum (8 bytes): xxh3 of everything before it (little-endian uint64)
//
// The filter bytes are embedded unchanged, so the wire layout of the bit
// vector is the same inside and outside the envelope.
func (f *Filter) MarshalBinary() ([]byte, error) {
	if uint64(len(f.bytes)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: filter data too large (%d bytes)", ErrInvalidData, len(f.bytes))
	}

	buf := make([]byte, headerSize+len(f.bytes)+checksumSize)

	buf[0] = serializeVersion
	binary.LittleEndian.PutUint32(buf[1:5], f.k)
	binary.LittleEndian.PutUint32(buf[5:9], f.numBits)
	binary.LittleEndian.PutUint32(buf[9:13], uint32(len(f.bytes)))

	end := headerSize + copy(buf[headerSize:], f.bytes)
	binary.LittleEndian.PutUint64(buf[end:], xxh3.Hash(buf[:end]))

	return buf, nil
}

// UnmarshalBinary decodes a filter produced by MarshalBinary.
// Returns an error if the data is invalid or corrupted.
func UnmarshalBinary(data []byte) (*Filter, error) {
	f, err := unmarshalBinary(data)
	if err != nil {
		klog.V(2).InfoS("Rejecting serialized filter", "len", len(data), "err", err)
		return nil, err
	}
	return f, nil
}

func unmarshalBinary(data []byte) (*Filter, error) {
	if len(data) < headerSize+checksumSize {
		return nil, fmt.Errorf("%w: data too short (got %d bytes, need at least %d)",
			ErrInvalidData, len(data), headerSize+checksumSize)
	}

	version := data[0]
	if version != serializeVersion {
		return nil, fmt.Errorf("%w: got version %d, expected %d", ErrUnsupportedVersion, version, serializeVersion)
	}

	k := binary.LittleEndian.Uint32(data[1:5])
	numBits := binary.LittleEndian.Uint32(data[5:9])
	dataLen := binary.LittleEndian.Uint32(data[9:13])

	expectedTotalLen := uint64(headerSize) + uint64(dataLen) + checksumSize
	if uint64(len(data)) != expectedTotalLen {
		return nil, fmt.Errorf("%w: data length mismatch (got %d bytes, expected %d)",
			ErrInvalidData, len(data), expectedTotalLen)
	}

	end := headerSize + int(dataLen)
	want := binary.LittleEndian.Uint64(data[end:])
	if got := xxh3.Hash(data[:end]); got != want {
		return nil, fmt.Errorf("%w: got %#016x, expected %#016x", ErrChecksumMismatch, got, want)
	}

	return fromBytes(k, numBits, data[headerSize:end])
}
