// Package archive implements the Entry Model, TOC Codec, and Archive
// Reader/Writer: the in-memory table of contents, its per-version wire
// encoding, and the two-pass save/load of a complete archive file.
package archive

import (
	"github.com/pgdmp-go/pgdmp/errs"
	"github.com/pgdmp-go/pgdmp/format"
	"github.com/pgdmp-go/pgdmp/internal/hash"
	"github.com/pgdmp-go/pgdmp/internal/options"
)

// DataState records whether an Entry carries a data block and, if so,
// whether its on-disk offset is already known.
type DataState uint8

const (
	// NoData means the entry has no attached data block.
	NoData DataState = iota
	// HasData means a data block is attached but its offset is not yet
	// known — only valid transiently, before a save's second pass.
	HasData
	// HasDataOffset means a data block is attached and Offset is valid.
	HasDataOffset
)

// Entry is one TOC record: a database object plus, optionally, its data
// block's location (spec.md §3).
type Entry struct {
	DumpID    int64
	HadDumper bool

	TableOID string
	OID      string
	Tag      string

	Desc    format.Descriptor
	Section format.Section

	Defn     string
	DropStmt string
	CopyStmt string

	Namespace  string
	Tablespace string
	TableAM    string
	Owner      string
	RelKind    string

	Dependencies []int64

	DataState DataState
	Offset    int64
}

// EntryOption configures an optional Entry field via AddEntry.
type EntryOption = options.Option[*Entry]

func withField(fn func(*Entry)) EntryOption {
	return options.NoError(fn)
}

// WithDumpID assigns an explicit dump id instead of the next monotonic
// one. AddEntry fails with KindInvalidID if id is not positive or is
// already in use.
func WithDumpID(id int64) EntryOption {
	return options.New(func(e *Entry) error {
		if id <= 0 {
			return errs.New(errs.KindInvalidID, "dump_id must be positive, got %d", id)
		}
		e.DumpID = id
		return nil
	})
}

// WithTableOID sets the entry's table OID.
func WithTableOID(oid string) EntryOption { return withField(func(e *Entry) { e.TableOID = oid }) }

// WithOID sets the entry's object OID.
func WithOID(oid string) EntryOption { return withField(func(e *Entry) { e.OID = oid }) }

// WithNamespace sets the entry's schema/namespace.
func WithNamespace(ns string) EntryOption { return withField(func(e *Entry) { e.Namespace = ns }) }

// WithOwner sets the entry's owning role.
func WithOwner(owner string) EntryOption { return withField(func(e *Entry) { e.Owner = owner }) }

// WithDefinition sets the DDL statement(s) that create the object.
func WithDefinition(defn string) EntryOption { return withField(func(e *Entry) { e.Defn = defn }) }

// WithDropStatement sets the statement that drops the object.
func WithDropStatement(stmt string) EntryOption {
	return withField(func(e *Entry) { e.DropStmt = stmt })
}

// WithCopyStatement sets the `COPY … FROM stdin;` statement preceding a
// TABLE DATA entry's rows.
func WithCopyStatement(stmt string) EntryOption {
	return withField(func(e *Entry) { e.CopyStmt = stmt })
}

// WithTablespace sets the entry's tablespace.
func WithTablespace(ts string) EntryOption { return withField(func(e *Entry) { e.Tablespace = ts }) }

// WithTableAccessMethod sets the entry's table access method. Only
// meaningful for archive versions ≥1.14 (format.HasTableAM); silently
// ignored on write for earlier versions.
func WithTableAccessMethod(am string) EntryOption {
	return withField(func(e *Entry) { e.TableAM = am })
}

// WithRelKind sets the entry's relation kind. Only meaningful for
// archive versions ≥1.16 (format.HasRelKind); silently ignored on write
// for earlier versions.
func WithRelKind(kind string) EntryOption { return withField(func(e *Entry) { e.RelKind = kind }) }

// WithDependencies sets the set of dump ids this entry depends on.
func WithDependencies(ids ...int64) EntryOption {
	return withField(func(e *Entry) { e.Dependencies = append([]int64(nil), ids...) })
}

// WithHadDumper marks the entry as carrying a data payload.
func WithHadDumper() EntryOption { return withField(func(e *Entry) { e.HadDumper = true }) }

// TOC is the in-memory table of contents: an ordered entry list with
// dump-id bookkeeping (spec.md §3/§4.3).
type TOC struct {
	Entries []*Entry
	byID    map[int64]*Entry

	// byKey indexes entries by a hash of (desc, namespace, tag) so
	// LookupEntry — called once per TABLE during a typical TableData
	// walk — doesn't degrade to a linear scan on archives with many
	// thousands of entries. Collisions are resolved by re-checking the
	// three fields against every entry sharing a bucket.
	byKey map[uint64][]*Entry
}

// NewTOC creates an empty table of contents.
func NewTOC() *TOC {
	return &TOC{byID: make(map[int64]*Entry), byKey: make(map[uint64][]*Entry)}
}

func lookupKey(desc format.Descriptor, namespace, tag string) uint64 {
	return hash.ID(string(desc) + "\x00" + namespace + "\x00" + tag)
}

func (t *TOC) maxDumpID() int64 {
	var max int64
	for _, e := range t.Entries {
		if e.DumpID > max {
			max = e.DumpID
		}
	}
	return max
}

// AddEntry creates and appends a new Entry, enforcing the Entry Model's
// invariants (spec.md §4.3):
//   - dump_id defaults to 1 + the current max, or the caller-supplied id
//     if given via WithDumpID, which must be positive and unused.
//   - section is computed from desc, never caller-supplied.
//   - every dependency id must already exist in the TOC.
func (t *TOC) AddEntry(desc format.Descriptor, tag string, opts ...EntryOption) (*Entry, error) {
	section, ok := format.SectionOf(desc)
	if !ok {
		return nil, errs.New(errs.KindUnknownDescriptor, "unknown descriptor %q", desc)
	}

	e := &Entry{Tag: tag, Desc: desc, Section: section}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	if e.DumpID == 0 {
		e.DumpID = t.maxDumpID() + 1
	} else if e.DumpID < 0 {
		return nil, errs.New(errs.KindInvalidID, "dump_id must be positive, got %d", e.DumpID)
	} else if _, exists := t.byID[e.DumpID]; exists {
		return nil, errs.New(errs.KindInvalidID, "dump_id %d already in use", e.DumpID)
	}

	for _, dep := range e.Dependencies {
		if _, exists := t.byID[dep]; !exists {
			return nil, errs.New(errs.KindMissingDependency, "dump_id %d depends on unknown dump_id %d", e.DumpID, dep)
		}
	}

	t.byID[e.DumpID] = e
	t.Entries = append(t.Entries, e)
	key := lookupKey(e.Desc, e.Namespace, e.Tag)
	t.byKey[key] = append(t.byKey[key], e)
	return e, nil
}

// LookupEntry finds the entry matching desc, namespace and tag, failing
// with KindEntityNotFound if none matches.
func (t *TOC) LookupEntry(desc format.Descriptor, namespace, tag string) (*Entry, error) {
	for _, e := range t.byKey[lookupKey(desc, namespace, tag)] {
		if e.Desc == desc && e.Namespace == namespace && e.Tag == tag {
			return e, nil
		}
	}
	return nil, errs.New(errs.KindEntityNotFound, "no %s entry %s.%s", desc, namespace, tag)
}

// ByID returns the entry with the given dump id, if any.
func (t *TOC) ByID(id int64) (*Entry, bool) {
	e, ok := t.byID[id]
	return e, ok
}
