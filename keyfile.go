package gridkit

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	"github.com/tamirms/gridkit/bitcast"
	"github.com/tamirms/gridkit/device"
	gkerrors "github.com/tamirms/gridkit/errors"
)

// KeyFile is a memory-mapped file of float32 keys that is transformed in
// place. File layout: [Header 64B][Keys n×4B][Footer 32B].
//
// A KeyFile is not safe for concurrent use. The slices returned by Keys and
// Ordered alias the mapping and are invalid after Close.
type KeyFile struct {
	file *os.File
	mmap mmap.MMap
	data []byte // whole mapping
	keys []byte // key region

	header header
	cfg    *config
	dev    device.Device

	closed atomic.Bool
}

// Create creates a key file for n keys at path, replacing any existing file.
// The keys start zeroed in the raw state; fill them through Keys.
func Create(path string, n int, opts ...Option) (*KeyFile, error) {
	if n <= 0 {
		return nil, gkerrors.ErrEmptyFile
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	size := fileSize(uint64(n))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create key file: %w", err)
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("failed to allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("failed to mmap file: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	kf := newKeyFile(file, mm, cfg)
	kf.keys = kf.data[headerSize : headerSize+uint64(n)*keySize]
	prefaultRegion(kf.keys)

	kf.header = header{
		Magic:   magic,
		Version: version,
		State:   StateRaw,
		Count:   uint64(n),
	}
	kf.header.encodeTo(kf.data[:headerSize])
	return kf, nil
}

// Open maps an existing key file for reading and writing.
func Open(path string, opts ...Option) (*KeyFile, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open key file: %w", err)
	}
	fi, err := file.Stat()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("stat key file: %w", err), file.Close())
	}
	size := fi.Size()
	if size < headerSize+footerSize {
		return nil, errors.Join(gkerrors.ErrTruncatedFile, file.Close())
	}
	fadviseSequential(int(file.Fd()), 0, size)

	mm, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("mmap key file: %w", err), file.Close())
	}

	kf := newKeyFile(file, mm, cfg)
	if err := kf.initFromData(); err != nil {
		return nil, errors.Join(err, kf.release())
	}
	return kf, nil
}

func newKeyFile(file *os.File, mm mmap.MMap, cfg *config) *KeyFile {
	dev := cfg.dev
	if dev == nil {
		dev = device.NewSerial()
	}
	return &KeyFile{
		file: file,
		mmap: mm,
		data: []byte(mm),
		cfg:  cfg,
		dev:  dev,
	}
}

// initFromData validates the header against the mapped size.
func (kf *KeyFile) initFromData() error {
	h, err := decodeHeader(kf.data)
	if err != nil {
		return err
	}
	avail := uint64(len(kf.data)) - headerSize - footerSize
	if h.Count > avail/keySize {
		return gkerrors.ErrTruncatedFile
	}
	if fileSize(h.Count) != uint64(len(kf.data)) {
		return gkerrors.ErrCorruptedFile
	}
	kf.header = *h
	kf.keys = kf.data[headerSize : headerSize+h.Count*keySize]
	return nil
}

// Len returns the number of keys.
func (kf *KeyFile) Len() int {
	return int(kf.header.Count)
}

// State reports what the key region holds.
func (kf *KeyFile) State() State {
	return kf.header.State
}

// Normalized reports whether the keys went through Normalize.
func (kf *KeyFile) Normalized() bool {
	return kf.header.Flags&flagNormalized != 0
}

// Keys returns the key region as float32 values. Meaningful in the raw and
// normalized states.
func (kf *KeyFile) Keys() []float32 {
	return bitcast.BytesAsFloat32s(kf.keys)
}

// Ordered returns the key region as uint32 codes. Meaningful in the encoded
// state.
func (kf *KeyFile) Ordered() []uint32 {
	return bitcast.Float32sAsUint32s(bitcast.BytesAsFloat32s(kf.keys))
}

// Device returns the device the key file launches kernels on.
func (kf *KeyFile) Device() device.Device {
	return kf.dev
}

func (kf *KeyFile) setState(s State) {
	kf.header.State = s
	kf.header.encodeTo(kf.data[:headerSize])
}

func (kf *KeyFile) checkOpen() error {
	if kf.closed.Load() {
		return gkerrors.ErrFileClosed
	}
	return nil
}

// Flush writes the footer checksums and syncs the mapping to disk.
func (kf *KeyFile) Flush() error {
	if err := kf.checkOpen(); err != nil {
		return err
	}
	fp := FingerprintOf(kf.Ordered())
	ftr := footer{
		KeysHash:    xxhash.Sum64(kf.keys),
		Fingerprint: fp.Digest(),
	}
	kf.header.encodeTo(kf.data[:headerSize])
	ftr.encodeTo(kf.data[len(kf.data)-footerSize:])
	if err := kf.mmap.Flush(); err != nil {
		return fmt.Errorf("mmap flush failed: %w", err)
	}
	return nil
}

// Verify recomputes both footer checksums over the key region. They describe
// the keys as of the last Flush.
func (kf *KeyFile) Verify() error {
	if err := kf.checkOpen(); err != nil {
		return err
	}
	ft, err := decodeFooter(kf.data[len(kf.data)-footerSize:])
	if err != nil {
		return err
	}
	if FingerprintOf(kf.Ordered()).Digest() != ft.Fingerprint {
		return gkerrors.ErrChecksumFailed
	}
	if xxhash.Sum64(kf.keys) != ft.KeysHash {
		return gkerrors.ErrChecksumFailed
	}
	return nil
}

// Close unmaps and closes the file without flushing. It is idempotent.
func (kf *KeyFile) Close() error {
	if kf.closed.Swap(true) {
		return nil
	}
	return kf.release()
}

func (kf *KeyFile) release() error {
	var unmapErr error
	if kf.mmap != nil {
		unmapErr = kf.mmap.Unmap()
		kf.mmap = nil
	}
	var closeErr error
	if kf.file != nil {
		closeErr = kf.file.Close()
		kf.file = nil
	}
	kf.data, kf.keys = nil, nil
	return errors.Join(unmapErr, closeErr)
}
