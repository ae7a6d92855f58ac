package format

import "fmt"

// Magic is the fixed 5-byte signature at the start of every custom-format
// archive.
var Magic = [5]byte{'P', 'G', 'D', 'M', 'P'}

// ArchiveVersion is the custom-format wire version, a (major, minor,
// revision) triplet written as three raw bytes after the magic.
type ArchiveVersion struct {
	Major, Minor, Rev byte
}

// The archive versions this library reads and writes.
var (
	V1_12 = ArchiveVersion{1, 12, 0}
	V1_13 = ArchiveVersion{1, 13, 0}
	V1_14 = ArchiveVersion{1, 14, 0}
	V1_15 = ArchiveVersion{1, 15, 0}
	V1_16 = ArchiveVersion{1, 16, 0}
)

// DefaultVersion is used by New and by ServerVersionArchiveVersion when a
// server version falls outside every known range.
var DefaultVersion = V1_14

var supportedVersions = []ArchiveVersion{V1_12, V1_13, V1_14, V1_15, V1_16}

func (v ArchiveVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Rev)
}

// num packs the triplet into a single comparable integer for ordering.
func (v ArchiveVersion) num() int {
	return int(v.Major)*10000 + int(v.Minor)*100 + int(v.Rev)
}

// AtLeast reports whether v is the same as or newer than other.
func (v ArchiveVersion) AtLeast(other ArchiveVersion) bool {
	return v.num() >= other.num()
}

// Bytes returns the three-byte wire encoding of the version.
func (v ArchiveVersion) Bytes() [3]byte {
	return [3]byte{v.Major, v.Minor, v.Rev}
}

// ParseArchiveVersion validates a raw (major, minor, rev) triplet read
// from an archive header against the set of versions this library
// understands.
func ParseArchiveVersion(b [3]byte) (ArchiveVersion, bool) {
	v := ArchiveVersion{b[0], b[1], b[2]}
	for _, s := range supportedVersions {
		if s == v {
			return v, true
		}
	}
	return v, false
}

// HasTableAM reports whether this version's TOC entries carry a
// tableam field (added at 1.14).
func (v ArchiveVersion) HasTableAM() bool { return v.AtLeast(V1_14) }

// HasRelKind reports whether this version's TOC entries carry a
// relkind field and BLOB METADATA entries (added at 1.16).
func (v ArchiveVersion) HasRelKind() bool { return v.AtLeast(V1_16) }

// HasHeaderCompression reports whether compression is negotiated in the
// header as an (algorithm, level) pair (>=1.15) rather than as a single
// level varint with algorithm inferred from level > 0.
func (v ArchiveVersion) HasHeaderCompression() bool { return v.AtLeast(V1_15) }

// HasEncodingBlock reports whether encoding/std_strings are read from a
// header block rather than from ENCODING/STDSTRINGS TOC entries
// (added at 1.13).
func (v ArchiveVersion) HasEncodingBlock() bool { return v.AtLeast(V1_13) }

// serverVersionRange is one contiguous band of PostgreSQL server_version
// numbers (the pg_config_manual.h convention: 120003 means 12.3) mapping
// to a single archive format version.
type serverVersionRange struct {
	min, max int // inclusive; max may be -1 for "and above"
	version  ArchiveVersion
}

// Ranges of server versions sharing one archive version: pre-10 servers
// map to 1.12, 10-11 to 1.13, 12-14 to 1.14, 15 to 1.15, and 16 onward
// to 1.16.
var serverVersionRanges = []serverVersionRange{
	{0, 99999, V1_12},
	{100000, 119999, V1_13},
	{120000, 149999, V1_14},
	{150000, 159999, V1_15},
	{160000, -1, V1_16},
}

// ServerVersionArchiveVersion maps a PostgreSQL server_version number to
// the archive format version pg_dump would have produced against that
// server. A serverVersion outside every known range (including <= 0)
// falls back to DefaultVersion, per spec.md §4.2 ("unknown versions fall
// back to the library's default").
func ServerVersionArchiveVersion(serverVersion int) ArchiveVersion {
	if serverVersion <= 0 {
		return DefaultVersion
	}
	for _, r := range serverVersionRanges {
		if serverVersion >= r.min && (r.max == -1 || serverVersion <= r.max) {
			return r.version
		}
	}
	return DefaultVersion
}
