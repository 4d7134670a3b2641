package amf3

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/flexwire/amf3/errs"
	"github.com/flexwire/amf3/internal/varint"
	"github.com/flexwire/amf3/registry"
	"github.com/flexwire/amf3/stream"
	"github.com/flexwire/amf3/xmldoc"
)

// Encoder is the Go-type-dispatched mirror of Decoder: a type switch over
// the host value in place of a marker byte, writing through the same
// reference tables Decoder reads from.
type Encoder struct {
	cfg   *Config
	ctx   *Context
	codec xmldoc.Codec
}

// NewEncoder builds an Encoder with a fresh Context, configured by opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, ctx: NewContext(), codec: xmldoc.RawCodec{}}, nil
}

// Context returns the Encoder's Context.
func (e *Encoder) Context() *Context { return e.ctx }

// SetXMLCodec overrides the XML serializer seam (default: xmldoc.RawCodec).
func (e *Encoder) SetXMLCodec(c xmldoc.Codec) { e.codec = c }

// Encode writes v to w as one top-level AMF3 element.
func (e *Encoder) Encode(w stream.Writer, v any) error {
	return e.writeElement(w, v)
}

// LegacyXML wraps an xmldoc.Document to request the legacy XMLDocument
// marker (0x07) instead of the E4X XMLString marker (0x0B) a bare
// xmldoc.Document gets unless the Context already tracks it as legacy XML.
// Both markers share the object reference table.
type LegacyXML struct {
	xmldoc.Document
}

func writeU29(w stream.Writer, n uint32) error {
	buf, err := varint.EncodeUnsigned(nil, n)
	if err != nil {
		return err
	}

	return w.Write(buf)
}

// writeLengthHeader encodes the U29 header shared by String/Date/Array/
// ByteArray/XML: (n<<1)|1 for an inline value, (n<<1)|0 for a reference.
func writeLengthHeader(w stream.Writer, n uint32, isReference bool) error {
	if isReference {
		return writeU29(w, n<<1)
	}

	return writeU29(w, (n<<1)|ReferenceBit)
}

func (e *Encoder) writeElement(w stream.Writer, v any) error {
	switch val := v.(type) {
	case nil:
		return w.WriteByte(byte(MarkerNull))
	case undefinedType:
		return w.WriteByte(byte(MarkerUndefined))
	case bool:
		if val {
			return w.WriteByte(byte(MarkerBoolTrue))
		}

		return w.WriteByte(byte(MarkerBoolFalse))
	case int:
		return e.writeNumericOrInteger(w, int64(val))
	case int8:
		return e.writeNumericOrInteger(w, int64(val))
	case int16:
		return e.writeNumericOrInteger(w, int64(val))
	case int32:
		return e.writeNumericOrInteger(w, int64(val))
	case int64:
		return e.writeNumericOrInteger(w, val)
	case uint:
		if uint64(val) > math.MaxInt64 {
			return e.writeNumber(w, float64(val))
		}

		return e.writeNumericOrInteger(w, int64(val))
	case uint8:
		return e.writeNumericOrInteger(w, int64(val))
	case uint16:
		return e.writeNumericOrInteger(w, int64(val))
	case uint32:
		return e.writeNumericOrInteger(w, int64(val))
	case uint64:
		if val > math.MaxInt64 {
			return e.writeNumber(w, float64(val))
		}

		return e.writeNumericOrInteger(w, int64(val))
	case float32:
		return e.writeNumber(w, float64(val))
	case float64:
		return e.writeNumber(w, val)
	case string:
		return e.writeStringElement(w, val)
	case time.Time:
		handle := new(time.Time)
		*handle = val

		return e.writeDate(w, handle)
	case *time.Time:
		return e.writeDate(w, val)
	case *List:
		return e.writeListDispatch(w, val)
	case List:
		cp := val
		return e.writeListDispatch(w, &cp)
	case []any:
		lst := List(val)
		return e.writeListDispatch(w, &lst)
	case *MixedArray:
		return e.writeDictDispatch(w, val)
	case *ByteArray:
		return e.writeByteArrayElement(w, val)
	case LegacyXML:
		return e.writeXMLElement(w, val.Document, true)
	case xmldoc.Document:
		_, legacy := e.ctx.LegacyXMLReference(val)
		return e.writeXMLElement(w, val, legacy)
	default:
		return e.writeGenericObject(w, v)
	}
}

// writeNumericOrInteger emits the Integer wire type when n fits in AMF3's
// 29-bit signed range, falling back to the Number (double) type otherwise:
// integers outside [-2^28, 2^28-1] are encoded as Number.
func (e *Encoder) writeNumericOrInteger(w stream.Writer, n int64) error {
	if n >= varint.MinSigned29 && n <= varint.MaxSigned29 {
		if err := w.WriteByte(byte(MarkerInteger)); err != nil {
			return err
		}

		buf, err := varint.EncodeSigned(nil, int32(n))
		if err != nil {
			return err
		}

		return w.Write(buf)
	}

	return e.writeNumber(w, float64(n))
}

func (e *Encoder) writeNumber(w stream.Writer, f float64) error {
	if err := w.WriteByte(byte(MarkerNumber)); err != nil {
		return err
	}

	return w.WriteF64(f)
}

// writeStringValue encodes a bare U29-prefixed UTF-8 string, shared by the
// String element body and bare class names/property/dict keys.
func (e *Encoder) writeStringValue(w stream.Writer, s string) error {
	if s == "" {
		return writeLengthHeader(w, 0, false)
	}

	if e.cfg.StringReferences {
		if idx, ok := e.ctx.StringReference(s); ok {
			return writeLengthHeader(w, uint32(idx), true)
		}
	}

	if err := writeLengthHeader(w, uint32(len(s)), false); err != nil {
		return err
	}

	if err := w.Write([]byte(s)); err != nil {
		return err
	}

	if e.cfg.StringReferences {
		e.ctx.AddString(s)
	}

	return nil
}

func (e *Encoder) writeStringElement(w stream.Writer, s string) error {
	if err := w.WriteByte(byte(MarkerString)); err != nil {
		return err
	}

	return e.writeStringValue(w, s)
}

func (e *Encoder) writeDate(w stream.Writer, handle *time.Time) error {
	if err := w.WriteByte(byte(MarkerDate)); err != nil {
		return err
	}

	if idx, ok := e.ctx.ObjectReference(handle); ok {
		return writeLengthHeader(w, uint32(idx), true)
	}

	e.ctx.AddObject(handle)

	if err := writeLengthHeader(w, 0, false); err != nil {
		return err
	}

	t := *handle
	if e.cfg.TimezoneOffset != 0 {
		t = t.Add(-e.cfg.TimezoneOffset)
	}

	return w.WriteF64(float64(t.UnixMilli()))
}

func (e *Encoder) writeListDispatch(w stream.Writer, lst *List) error {
	if e.cfg.UseProxies {
		return e.writeProxy(w, AliasArrayCollection, lst, func(w stream.Writer) error {
			return e.writeListBody(w, lst)
		})
	}

	return e.writeListBody(w, lst)
}

func (e *Encoder) writeListBody(w stream.Writer, lst *List) error {
	if err := w.WriteByte(byte(MarkerArray)); err != nil {
		return err
	}

	if idx, ok := e.ctx.ObjectReference(lst); ok {
		return writeLengthHeader(w, uint32(idx), true)
	}

	e.ctx.AddObject(lst)

	if err := writeLengthHeader(w, uint32(len(*lst)), false); err != nil {
		return err
	}

	// Empty-key sentinel: a dense array has no associative pairs, signaled
	// by the same empty string that terminates a MixedArray's associative
	// section.
	if err := e.writeStringValue(w, ""); err != nil {
		return err
	}

	for _, el := range *lst {
		if err := e.writeElement(w, el); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) writeDictDispatch(w stream.Writer, ma *MixedArray) error {
	if e.cfg.UseProxies {
		return e.writeProxy(w, AliasObjectProxy, ma, func(w stream.Writer) error {
			return e.writeDictBody(w, ma)
		})
	}

	return e.writeDictBody(w, ma)
}

func (e *Encoder) writeDictBody(w stream.Writer, ma *MixedArray) error {
	if _, ok := ma.Get(""); ok {
		return errs.ErrEmptyDictKey
	}

	if err := w.WriteByte(byte(MarkerArray)); err != nil {
		return err
	}

	if idx, ok := e.ctx.ObjectReference(ma); ok {
		return writeLengthHeader(w, uint32(idx), true)
	}

	e.ctx.AddObject(ma)

	denseKeys, assocKeys := partitionDictKeys(ma.Keys())

	if err := writeLengthHeader(w, uint32(len(denseKeys)), false); err != nil {
		return err
	}

	for _, k := range assocKeys {
		if k == "" {
			return errs.ErrEmptyDictKey
		}

		if err := e.writeStringValue(w, k); err != nil {
			return err
		}

		v, _ := ma.Get(k)
		if err := e.writeElement(w, v); err != nil {
			return err
		}
	}

	if err := e.writeStringValue(w, ""); err != nil {
		return err
	}

	for _, k := range denseKeys {
		v, _ := ma.Get(strconv.Itoa(k))
		if err := e.writeElement(w, v); err != nil {
			return err
		}
	}

	return nil
}

// partitionDictKeys splits a MixedArray's keys into its dense, integer-
// keyed part and its associative, string-keyed tail. A key is a dense
// candidate only if it is the canonical decimal form of a non-negative
// int; candidates are then sorted and kept as dense iff the smallest one
// is exactly 0 — not a full contiguity check, matching the source
// comment's literal rule ("If integer keys don't start at 0, they will be
// treated as strings") verbatim, gaps above the smallest and all. A gap
// in an otherwise zero-anchored run is therefore written positionally on
// the wire and re-keyed 0..n-1 on decode, discarding the original integer
// key — a known AMF3 encoder quirk this preserves rather than "fixes".
func partitionDictKeys(keys []string) (denseKeys []int, assocKeys []string) {
	var intKeys []int

	for _, k := range keys {
		if n, ok := parseCanonicalNonNegativeInt(k); ok {
			intKeys = append(intKeys, n)
			continue
		}

		assocKeys = append(assocKeys, k)
	}

	sort.Ints(intKeys)

	if len(intKeys) > 0 && intKeys[0] != 0 {
		for _, n := range intKeys {
			assocKeys = append(assocKeys, strconv.Itoa(n))
		}

		return nil, assocKeys
	}

	return intKeys, assocKeys
}

func parseCanonicalNonNegativeInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}

	if strconv.Itoa(n) != s {
		return 0, false
	}

	return n, true
}

func (e *Encoder) writeByteArrayElement(w stream.Writer, b *ByteArray) error {
	if err := w.WriteByte(byte(MarkerByteArray)); err != nil {
		return err
	}

	if idx, ok := e.ctx.ObjectReference(b); ok {
		return writeLengthHeader(w, uint32(idx), true)
	}

	e.ctx.AddObject(b)

	data := b.Data
	if b.Compressed {
		compressed, err := compressByteArray(b.Data)
		if err != nil {
			return err
		}

		data = compressed
	}

	if err := writeLengthHeader(w, uint32(len(data)), false); err != nil {
		return err
	}

	return w.Write(data)
}

func (e *Encoder) writeXMLElement(w stream.Writer, doc xmldoc.Document, legacy bool) error {
	marker := MarkerXMLString
	if legacy {
		marker = MarkerXMLDoc
	}

	if err := w.WriteByte(byte(marker)); err != nil {
		return err
	}

	if idx, ok := e.ctx.ObjectReference(doc); ok {
		return writeLengthHeader(w, uint32(idx), true)
	}

	e.ctx.AddObject(doc)
	if legacy {
		e.ctx.AddLegacyXML(doc)
	}

	payload, err := e.codec.Serialize(doc)
	if err != nil {
		return err
	}

	if err := writeLengthHeader(w, uint32(len(payload)), false); err != nil {
		return err
	}

	return w.Write(payload)
}

// writeProxy wraps v's body (written by writeBody) in an Object element
// bearing the given Flex proxy alias name, as External-encoded traits
// whose single property is the wrapped source collection.
//
// The proxy is registered under its own handle (Context.ProxyHandleFor),
// distinct from v's identity: v keeps its own object-reference slot,
// assigned when writeBody first writes it. Registering the reference check
// against v directly would make the re-entrant writeBody call see v as
// already-registered and emit a self-reference in place of its contents.
func (e *Encoder) writeProxy(w stream.Writer, alias string, v any, writeBody func(stream.Writer) error) error {
	if err := w.WriteByte(byte(MarkerObject)); err != nil {
		return err
	}

	handle := e.ctx.ProxyHandleFor(v, alias)

	if idx, ok := e.ctx.ObjectReference(handle); ok {
		return writeLengthHeader(w, uint32(idx), true)
	}

	e.ctx.AddObject(handle)

	header := uint32(ReferenceBit) | (ReferenceBit << 1) | (uint32(EncodingExternal) << 2)
	if err := writeU29(w, header); err != nil {
		return err
	}

	if err := e.writeStringValue(w, alias); err != nil {
		return err
	}

	return writeBody(w)
}

func (e *Encoder) writeGenericObject(w stream.Writer, v any) error {
	if e.cfg.Registry == nil {
		return errs.ErrNoAliasForType
	}

	alias, ok := e.cfg.Registry.ByType(reflect.TypeOf(v))
	if !ok {
		return errs.ErrNoAliasForType
	}

	return e.writeObjectWithAlias(w, v, alias)
}

func (e *Encoder) writeObjectWithAlias(w stream.Writer, v any, alias registry.ClassAlias) error {
	if err := w.WriteByte(byte(MarkerObject)); err != nil {
		return err
	}

	if idx, ok := e.ctx.ObjectReference(v); ok {
		return writeLengthHeader(w, uint32(idx), true)
	}

	e.ctx.AddObject(v)

	t := alias.Klass()

	cd, cached := e.ctx.GetClassByType(t)
	if !cached {
		cd = &ClassDefinition{
			Alias:    alias,
			Encoding: encodingFromAlias(alias, v),
		}

		if cd.Encoding == EncodingStatic || cd.Encoding == EncodingDynamic {
			cd.StaticProperties = alias.StaticAttrs()
		}

		e.ctx.AddClass(cd, t)

		if err := e.writeFullClassDef(w, cd); err != nil {
			return err
		}
	} else if err := e.writeClassDefReference(w, cd); err != nil {
		return err
	}

	switch cd.Encoding {
	case EncodingExternal, EncodingProxy:
		ext, ok := v.(registry.Externalizable)
		if !ok {
			return errs.ErrExternalizableRequired
		}

		out := stream.NewOutput(w, e.writeElement)

		return ext.WriteExternal(out)
	case EncodingStatic:
		attrs, err := alias.GetEncodableAttributes(v)
		if err != nil {
			return err
		}

		for _, name := range cd.StaticProperties {
			if err := e.writeElement(w, attrs[name]); err != nil {
				return err
			}
		}

		return nil
	case EncodingDynamic:
		attrs, err := alias.GetEncodableAttributes(v)
		if err != nil {
			return err
		}

		for _, name := range cd.StaticProperties {
			if err := e.writeElement(w, attrs[name]); err != nil {
				return err
			}
		}

		for _, name := range alias.EncodableProperties(v) {
			if containsString(cd.StaticProperties, name) {
				continue
			}

			if err := e.writeStringValue(w, name); err != nil {
				return err
			}

			if err := e.writeElement(w, attrs[name]); err != nil {
				return err
			}
		}

		return e.writeStringValue(w, "")
	default:
		return errs.ErrUnknownEncoding
	}
}

// writeFullClassDef emits the combined object-inline/trait-inline/encoding/
// attrLen header plus the class name and static property names, the first
// time a class's traits are written in this Context:
// U29(0x03 | (encoding<<2) | (attrLen<<4)).
func (e *Encoder) writeFullClassDef(w stream.Writer, cd *ClassDefinition) error {
	header := uint32(ReferenceBit) | (ReferenceBit << 1) | (uint32(cd.Encoding) << 2) | (uint32(cd.AttrLen()) << 4)
	if err := writeU29(w, header); err != nil {
		return err
	}

	name := ""
	if cd.Alias != nil {
		name = cd.Alias.Alias()
	}

	if err := e.writeStringValue(w, name); err != nil {
		return err
	}

	for _, p := range cd.StaticProperties {
		if err := e.writeStringValue(w, p); err != nil {
			return err
		}
	}

	return nil
}

// writeClassDefReference emits a cached class's trait-reference header:
// object inline (bit 0), trait reference (bit 1 clear), reference index in
// the remaining bits.
func (e *Encoder) writeClassDefReference(w stream.Writer, cd *ClassDefinition) error {
	header := uint32(ReferenceBit) | (uint32(cd.ReferenceIndex) << 2)
	return writeU29(w, header)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}

	return false
}
