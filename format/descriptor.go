// Package format catalogues the fixed, version-independent constants of
// the pg_dump custom archive format: object-type descriptors and the
// section they belong to, the magic number, and the table mapping
// PostgreSQL server versions to archive format versions.
//
// Nothing in this package depends on archive content — it is the
// immutable reference data the rest of pgdmp dispatches against.
package format

// Descriptor identifies the kind of database object a TOC entry
// describes (TABLE, INDEX, COMMENT, ...).
type Descriptor string

// The descriptor catalogue pg_dump emits into a custom-format archive.
const (
	DescAggregate           Descriptor = "AGGREGATE"
	DescACL                 Descriptor = "ACL"
	DescACLLanguage         Descriptor = "ACL LANGUAGE"
	DescBlob                Descriptor = "BLOB"
	DescBlobs               Descriptor = "BLOBS"
	DescBlobMetadata        Descriptor = "BLOB METADATA"
	DescCollation           Descriptor = "COLLATION"
	DescComment             Descriptor = "COMMENT"
	DescConstraint          Descriptor = "CONSTRAINT"
	DescConversion          Descriptor = "CONVERSION"
	DescDatabase            Descriptor = "DATABASE"
	DescDefaultACL          Descriptor = "DEFAULT ACL"
	DescDomain              Descriptor = "DOMAIN"
	DescEncoding            Descriptor = "ENCODING"
	DescEventTrigger        Descriptor = "EVENT TRIGGER"
	DescExtension           Descriptor = "EXTENSION"
	DescFKConstraint        Descriptor = "FK CONSTRAINT"
	DescForeignDataWrapper  Descriptor = "FOREIGN DATA WRAPPER"
	DescForeignServer       Descriptor = "FOREIGN SERVER"
	DescFunction            Descriptor = "FUNCTION"
	DescIndex               Descriptor = "INDEX"
	DescMaterializedView    Descriptor = "MATERIALIZED VIEW"
	DescOperator            Descriptor = "OPERATOR"
	DescOperatorClass       Descriptor = "OPERATOR CLASS"
	DescOperatorFamily      Descriptor = "OPERATOR FAMILY"
	DescOwner               Descriptor = "OWNER"
	DescPolicy              Descriptor = "POLICY"
	DescPublication         Descriptor = "PUBLICATION"
	DescRowSecurity         Descriptor = "ROW SECURITY"
	DescRule                Descriptor = "RULE"
	DescSchema              Descriptor = "SCHEMA"
	DescSearchPath          Descriptor = "SEARCHPATH"
	DescSequence            Descriptor = "SEQUENCE"
	DescSequenceSet         Descriptor = "SEQUENCE SET"
	DescStdStrings          Descriptor = "STDSTRINGS"
	DescSubscription        Descriptor = "SUBSCRIPTION"
	DescTable               Descriptor = "TABLE"
	DescTableData           Descriptor = "TABLE DATA"
	DescTablespace          Descriptor = "TABLESPACE"
	DescTransform           Descriptor = "TRANSFORM"
	DescTrigger             Descriptor = "TRIGGER"
	DescType                Descriptor = "TYPE"
	DescUserMapping         Descriptor = "USER MAPPING"
	DescView                Descriptor = "VIEW"
)

// Section is the coarse restore-ordering phase a descriptor belongs to.
type Section uint8

const (
	// SectionNone covers entries with no restore-ordering significance
	// (e.g. COMMENT, ACL, ENCODING, SEARCHPATH).
	SectionNone Section = iota
	// SectionPreData covers schema-defining objects created before data
	// is loaded (SCHEMA, TABLE, TYPE, EXTENSION, ...).
	SectionPreData
	// SectionData covers the data-carrying entries (TABLE DATA, BLOBS,
	// SEQUENCE SET).
	SectionData
	// SectionPostData covers objects that depend on data already being
	// present (INDEX, CONSTRAINT, TRIGGER, FK CONSTRAINT, RULE).
	SectionPostData
)

func (s Section) String() string {
	switch s {
	case SectionPreData:
		return "Pre-Data"
	case SectionData:
		return "Data"
	case SectionPostData:
		return "Post-Data"
	default:
		return "None"
	}
}

// Order returns the sort key used by the writer's topological sort
// secondary key: Pre-Data < Data < Post-Data < None.
func (s Section) Order() int {
	switch s {
	case SectionPreData:
		return 0
	case SectionData:
		return 1
	case SectionPostData:
		return 2
	default:
		return 3
	}
}

var descriptorSection = map[Descriptor]Section{
	DescSchema:             SectionPreData,
	DescExtension:          SectionPreData,
	DescType:               SectionPreData,
	DescDomain:             SectionPreData,
	DescTable:              SectionPreData,
	DescSequence:           SectionPreData,
	DescView:               SectionPreData,
	DescMaterializedView:   SectionPreData,
	DescFunction:           SectionPreData,
	DescAggregate:          SectionPreData,
	DescOperator:           SectionPreData,
	DescOperatorClass:      SectionPreData,
	DescOperatorFamily:     SectionPreData,
	DescCollation:          SectionPreData,
	DescConversion:         SectionPreData,
	DescForeignDataWrapper: SectionPreData,
	DescForeignServer:      SectionPreData,
	DescUserMapping:        SectionPreData,
	DescTransform:          SectionPreData,
	DescTablespace:         SectionPreData,
	DescPublication:        SectionPreData,
	DescSubscription:       SectionPreData,

	DescTableData:    SectionData,
	DescBlobs:        SectionData,
	DescBlobMetadata: SectionData,
	DescSequenceSet:  SectionData,

	DescIndex:        SectionPostData,
	DescConstraint:   SectionPostData,
	DescFKConstraint: SectionPostData,
	DescTrigger:      SectionPostData,
	DescRule:         SectionPostData,
	DescPolicy:       SectionPostData,
	DescRowSecurity:  SectionPostData,
	DescEventTrigger: SectionPostData,

	DescComment:        SectionNone,
	DescACL:            SectionNone,
	DescACLLanguage:    SectionNone,
	DescDefaultACL:     SectionNone,
	DescOwner:          SectionNone,
	DescEncoding:       SectionNone,
	DescStdStrings:     SectionNone,
	DescSearchPath:     SectionNone,
	DescDatabase:       SectionNone,
	DescBlob:           SectionNone,
}

// SectionOf returns the fixed section a descriptor belongs to. The bool
// result is false when desc is not in the catalogue, letting callers
// raise an unknown-descriptor error with context only they can supply.
func SectionOf(desc Descriptor) (Section, bool) {
	s, ok := descriptorSection[desc]
	return s, ok
}

// KnownDescriptor reports whether desc appears in the fixed catalogue.
func KnownDescriptor(desc Descriptor) bool {
	_, ok := descriptorSection[desc]
	return ok
}
