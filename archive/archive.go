package archive

import (
	"os"
	"time"

	"github.com/pgdmp-go/pgdmp/compress"
	"github.com/pgdmp-go/pgdmp/convert"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/store"
)

// CompressionFormat is the custom-format's own on-wire compression
// choice for a data block — always none or gzip (spec.md §6.1). This is
// independent of the Data Store's scratch algorithm (compress.Algorithm)
// chosen for the temp files backing entries while the archive is built.
type CompressionFormat struct {
	Algorithm format.CompressionAlgorithm
	Level     int
}

// Archive is the in-memory model of one pg_dump custom-format file: its
// header fields, its TOC, and the Data Store backing each entry that
// carries data (spec.md §3).
type Archive struct {
	Version    format.ArchiveVersion
	IntSize    int
	OffSize    int
	Compress   CompressionFormat
	Timestamp  time.Time
	DBName     string
	ServerVer  string
	DumpVerStr string
	Encoding   string
	StdStrings bool
	SearchPath string

	TOC *TOC

	converter  convert.Converter
	scratch    compress.Algorithm
	scratchDir string

	// file is the backing file for an Archive opened via Open, read
	// lazily at each entry's recorded offset for TableData/Blobs. Save
	// writes to its own temp file and never touches this field.
	file *os.File

	stores map[int64]*store.Store
}

// defaultIntSize and defaultOffSize match the widths pg_dump emits on
// every 64-bit build this library targets.
const (
	defaultIntSize = 4
	defaultOffSize = 8
)

// New creates an empty Archive ready to accept entries via TOC.AddEntry,
// defaulting to format.DefaultVersion, gzip-compressed storage, and the
// Smart converter.
func New(dbname string, opts ...Option) *Archive {
	a := &Archive{
		Version:    format.DefaultVersion,
		IntSize:    defaultIntSize,
		OffSize:    defaultOffSize,
		Compress:   CompressionFormat{Algorithm: format.CompressionAlgGzip, Level: 6},
		Timestamp:  time.Now(),
		DBName:     dbname,
		Encoding:   "UTF8",
		StdStrings: true,
		TOC:        NewTOC(),
		converter:  convert.NewSmart(),
		scratch:    compress.AlgGzip,
		stores:     make(map[int64]*store.Store),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Option configures an Archive at construction time.
type Option func(*Archive)

// WithEncoding overrides the archive's declared client encoding.
func WithEncoding(encoding string) Option {
	return func(a *Archive) { a.Encoding = encoding }
}

// WithConverter overrides the Converter used when iterating TableData.
func WithConverter(c convert.Converter) Option {
	return func(a *Archive) { a.converter = c }
}

// WithCompressionLevel sets the on-wire gzip level (0 disables
// compression entirely, matching `pg_dump --compress=0`).
func WithCompressionLevel(level int) Option {
	return func(a *Archive) {
		a.Compress.Level = level
		if level == 0 {
			a.Compress.Algorithm = format.CompressionAlgNone
		} else {
			a.Compress.Algorithm = format.CompressionAlgGzip
		}
	}
}

// WithFormatVersion pins the archive to an explicit format version
// instead of format.DefaultVersion.
func WithFormatVersion(v format.ArchiveVersion) Option {
	return func(a *Archive) { a.Version = v }
}

// WithServerVersion derives the archive's format version from a
// PostgreSQL server_version number via format.ServerVersionArchiveVersion.
func WithServerVersion(serverVersion int, serverVersionString string) Option {
	return func(a *Archive) {
		a.Version = format.ServerVersionArchiveVersion(serverVersion)
		a.ServerVer = serverVersionString
	}
}

// WithScratchAlgorithm selects the Data Store's scratch-file compression
// algorithm — a build-time performance tuning knob, independent of the
// archive's own wire compression (spec.md §4.5 EXPANSION).
func WithScratchAlgorithm(alg compress.Algorithm) Option {
	return func(a *Archive) { a.scratch = alg }
}

// WithScratchDir overrides the directory used for Data Store temp files.
func WithScratchDir(dir string) Option {
	return func(a *Archive) { a.scratchDir = dir }
}

// storeFor returns (creating if necessary) the Data Store backing id.
func (a *Archive) storeFor(id int64) (*store.Store, error) {
	if s, ok := a.stores[id]; ok {
		return s, nil
	}
	s, err := store.New(a.scratchDir, a.scratch)
	if err != nil {
		return nil, err
	}
	a.stores[id] = s
	return s, nil
}

// Close releases every Data Store temp file the archive owns. Safe to
// call multiple times and regardless of how construction or Save
// failed (spec.md §5).
func (a *Archive) Close() error {
	var firstErr error
	for id, s := range a.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(a.stores, id)
	}
	if a.file != nil {
		if err := a.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.file = nil
	}
	return firstErr
}
