// Package xmldoc provides the opaque XML document handle threaded through
// the legacy-XML reference table: an opaque XML document tree produced and
// consumed via an external parser.
//
// AMF3 carries two XML wire types: legacy XMLDocument (0x07, whose
// documents the core also tracks in a legacy-XML table) and E4X XMLString
// (0x0B). Both are referenced through the object table and both
// flatten to UTF-8 text on the wire; this package does not parse that text
// into a tree, it only gives the core something comparable-by-identity to
// put in a reference table and a seam for callers who want real structure.
package xmldoc

// Document is the handle the decoder hands back for an XML element and
// the encoder accepts for one. It is deliberately opaque: the core never
// inspects its contents, only its identity (for the legacy-XML reference
// table) and its serialized form (via a Codec).
type Document interface {
	// XML returns the document's UTF-8 serialized form.
	XML() string
}

// Codec is the external-parser seam. A caller embedding a full XML
// implementation (e.g. encoding/xml) supplies one; the default RawCodec
// treats the bytes as opaque text.
type Codec interface {
	Parse(raw []byte) (Document, error)
	Serialize(doc Document) ([]byte, error)
}

// raw is the default Document: an unparsed UTF-8 blob.
type raw struct {
	text string
}

func (r *raw) XML() string { return r.text }

// RawCodec is the default Codec: it performs no structural parsing and
// simply wraps the bytes. Consumers that need element/attribute access
// should supply their own Codec backed by a real XML library.
type RawCodec struct{}

// Parse wraps raw bytes into an opaque Document.
func (RawCodec) Parse(data []byte) (Document, error) {
	return &raw{text: string(data)}, nil
}

// Serialize returns doc's UTF-8 form.
func (RawCodec) Serialize(doc Document) ([]byte, error) {
	return []byte(doc.XML()), nil
}
