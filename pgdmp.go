// Package pgdmp reads and writes PostgreSQL's custom-format (`pg_dump
// -Fc`) archive files: the byte codec, the entry/TOC model, the
// gzip-backed Data Store, and the two-pass archive writer all live in
// subpackages (wire, format, archive, store, convert); this package is
// the thin entry point matching the two factory functions a caller
// reaches for first.
package pgdmp

import (
	"github.com/pgdmp-go/pgdmp/archive"
	"github.com/pgdmp-go/pgdmp/convert"
)

// Archive is the in-memory model of one custom-format file: header
// fields, TOC, and the Data Store backing every entry that carries data.
type Archive = archive.Archive

// Entry is one TOC record.
type Entry = archive.Entry

// EntryOption configures an optional Entry field via Archive.TOC.AddEntry.
type EntryOption = archive.EntryOption

// Option configures an Archive at construction time via New, or a
// loaded Archive's converter via Load.
type Option = archive.Option

// Converter renders a TABLE DATA row's raw COPY-text fields into typed
// values.
type Converter = convert.Converter

// Re-exported Entry options, so callers never need to import the
// archive subpackage directly for the common case.
var (
	WithDumpID            = archive.WithDumpID
	WithTableOID          = archive.WithTableOID
	WithOID               = archive.WithOID
	WithNamespace         = archive.WithNamespace
	WithOwner             = archive.WithOwner
	WithDefinition        = archive.WithDefinition
	WithDropStatement     = archive.WithDropStatement
	WithCopyStatement     = archive.WithCopyStatement
	WithTablespace        = archive.WithTablespace
	WithTableAccessMethod = archive.WithTableAccessMethod
	WithRelKind           = archive.WithRelKind
	WithDependencies      = archive.WithDependencies

	WithEncoding         = archive.WithEncoding
	WithConverter        = archive.WithConverter
	WithCompressionLevel = archive.WithCompressionLevel
	WithFormatVersion    = archive.WithFormatVersion
	WithServerVersion    = archive.WithServerVersion
	WithScratchAlgorithm = archive.WithScratchAlgorithm
	WithScratchDir       = archive.WithScratchDir
)

// Converters available out of the box.
var (
	NewDefaultConverter = convert.NewDefault
	NewNoOpConverter    = convert.NewNoOp
	NewSmartConverter   = convert.NewSmart
)

// Load opens and validates the archive at path, returning an Archive
// ready for TableData/Blobs iteration (spec.md §6.2's load(path)).
func Load(path string, opts ...Option) (*Archive, error) {
	return archive.Open(path, opts...)
}

// New creates an empty Archive for dbname, ready to accept entries via
// Archive.TOC.AddEntry and data via Archive.TableDataWriter/AddBlob
// (spec.md §6.2's new(dbname, ...)).
func New(dbname string, opts ...Option) *Archive {
	return archive.New(dbname, opts...)
}
