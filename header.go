package gridkit

import (
	"encoding/binary"

	gkerrors "github.com/tamirms/gridkit/errors"
)

const (
	// magic number for key files
	// "GRDK" in little-endian
	magic = uint32(0x4B445247)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (64 bytes)
	headerSize = 64

	// footerSize is the exact size of the serialized footer (32 bytes)
	footerSize = 32

	// keySize is the stored width of one key
	keySize = 4
)

// State records what the key region currently holds.
type State uint16

const (
	// StateRaw keys are float32 values as written by the caller.
	StateRaw State = iota
	// StateNormalized keys are float32 values mapped into [0, 1].
	StateNormalized
	// StateEncoded keys are order-preserving uint32 codes.
	StateEncoded
)

func (s State) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateNormalized:
		return "normalized"
	case StateEncoded:
		return "encoded"
	default:
		return "unknown"
	}
}

// header flags
const (
	// flagNormalized is set once the keys were normalized, so Decode knows
	// which float state it returns to.
	flagNormalized uint32 = 1 << iota
)

// header is the 64-byte file header.
//
// Layout:
//
//	Offset  Size  Field     Type
//	0       4     Magic     0x4B445247 ("GRDK")
//	4       2     Version   0x0001
//	6       2     State     uint16_le
//	8       8     Count     uint64_le (number of keys)
//	16      4     Flags     uint32_le
//	20      44    Reserved  [44]byte (zero)
type header struct {
	Magic    uint32
	Version  uint16
	State    State
	Count    uint64
	Flags    uint32
	Reserved [44]byte
}

func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(h.State))
	binary.LittleEndian.PutUint64(buf[8:16], h.Count)
	binary.LittleEndian.PutUint32(buf[16:20], h.Flags)
	copy(buf[20:64], h.Reserved[:])
}

// decodeHeader parses a 64-byte header. It checks the fields that do not
// depend on the file size; the caller checks Count against the file.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, gkerrors.ErrTruncatedFile
	}

	h := &header{
		Magic:   binary.LittleEndian.Uint32(buf[0:4]),
		Version: binary.LittleEndian.Uint16(buf[4:6]),
		State:   State(binary.LittleEndian.Uint16(buf[6:8])),
		Count:   binary.LittleEndian.Uint64(buf[8:16]),
		Flags:   binary.LittleEndian.Uint32(buf[16:20]),
	}
	copy(h.Reserved[:], buf[20:64])

	if h.Magic != magic {
		return nil, gkerrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, gkerrors.ErrInvalidVersion
	}
	if h.State > StateEncoded {
		return nil, gkerrors.ErrCorruptedFile
	}
	if h.Count == 0 {
		return nil, gkerrors.ErrCorruptedFile
	}
	return h, nil
}

// fileSize returns the total size of a key file holding n keys.
func fileSize(n uint64) uint64 {
	return headerSize + n*keySize + footerSize
}

// footer is the 32-byte file footer.
//
// Layout:
//
//	Offset  Size  Field        Type
//	0       8     KeysHash     uint64_le (xxHash64 of key region)
//	8       8     Fingerprint  uint64_le (order-independent multiset digest)
//	16      16    Reserved     [16]byte (zero)
type footer struct {
	KeysHash    uint64
	Fingerprint uint64
	Reserved    [16]byte
}

func (f *footer) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.KeysHash)
	binary.LittleEndian.PutUint64(buf[8:16], f.Fingerprint)
	copy(buf[16:32], f.Reserved[:])
}

func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, gkerrors.ErrTruncatedFile
	}
	f := &footer{
		KeysHash:    binary.LittleEndian.Uint64(buf[0:8]),
		Fingerprint: binary.LittleEndian.Uint64(buf[8:16]),
	}
	copy(f.Reserved[:], buf[16:32])
	return f, nil
}
