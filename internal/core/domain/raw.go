package domain

// RawDocument represents opaque bytes fetched by a connector.
// It is the connector's output before normalisation.
type RawDocument struct {
	// Path is the file location on disk.
	Path string

	// Type is the legal category of the collection the file was found in.
	Type DocType

	// Content is the raw bytes.
	Content []byte
}

// ChangeType represents the type of corpus file change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed or renamed file.
	ChangeDeleted
)

// String returns the string representation.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// CorpusChange is a watch event for one corpus file.
type CorpusChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the affected file.
	Path string

	// DocType is the collection the file belongs to.
	DocType DocType
}
