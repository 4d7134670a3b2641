package amf3

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/flexwire/amf3/errs"
	"github.com/flexwire/amf3/internal/varint"
	"github.com/flexwire/amf3/registry"
	"github.com/flexwire/amf3/stream"
	"github.com/flexwire/amf3/xmldoc"
)

// Decoder is a type-dispatched state machine: read one marker byte,
// delegate to the matching per-type handler, consulting Context to
// resolve references.
type Decoder struct {
	cfg   *Config
	ctx   *Context
	codec xmldoc.Codec
}

// NewDecoder builds a Decoder with a fresh Context, configured by opts.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg, ctx: NewContext(), codec: xmldoc.RawCodec{}}, nil
}

// Context returns the Decoder's Context, for callers that want to inspect
// or clear it between messages.
func (d *Decoder) Context() *Context { return d.ctx }

// SetXMLCodec overrides the XML parser seam (default: xmldoc.RawCodec).
func (d *Decoder) SetXMLCodec(c xmldoc.Codec) { d.codec = c }

// Decode reads exactly one top-level AMF3 element from r.
func (d *Decoder) Decode(r stream.Reader) (any, error) {
	return d.readElement(r)
}

// DecodeAll reads elements from r until it is exhausted, treating io.EOF
// at an element boundary as a clean end rather than an error — the only
// consumer of the non-fatal EOStream signal.
func (d *Decoder) DecodeAll(r stream.Reader) ([]any, error) {
	var out []any

	for {
		atBoundary := r.Len() == 0

		v, err := d.readElement(r)
		if err != nil {
			if err == errs.EOStream {
				if atBoundary {
					return out, nil
				}

				// The stream ran out inside an element, not between two.
				return out, io.ErrUnexpectedEOF
			}

			return out, err
		}

		out = append(out, v)
	}
}

func (d *Decoder) readElement(r stream.Reader) (any, error) {
	b, err := r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, errs.EOStream
		}

		return nil, err
	}

	switch Marker(b) {
	case MarkerUndefined:
		return Undefined, nil
	case MarkerNull:
		return nil, nil
	case MarkerBoolFalse:
		return false, nil
	case MarkerBoolTrue:
		return true, nil
	case MarkerInteger:
		return d.readInteger(r)
	case MarkerNumber:
		return r.ReadF64()
	case MarkerString:
		return d.readStringValue(r)
	case MarkerXMLDoc:
		return d.readXML(r, true)
	case MarkerDate:
		return d.readDate(r)
	case MarkerArray:
		return d.readArray(r)
	case MarkerObject:
		return d.readObject(r)
	case MarkerXMLString:
		return d.readXML(r, false)
	case MarkerByteArray:
		return d.readByteArray(r)
	default:
		return nil, fmt.Errorf("amf3: unknown type marker 0x%02x", b)
	}
}

func (d *Decoder) readInteger(r stream.Reader) (int32, error) {
	return varint.DecodeSigned(r)
}

// readLength reads a U29 header shared by String/Date/Array/Object/
// ByteArray/XML, splitting it into its value and its reference/inline bit,
// mirroring pyamf's _readLength.
func (d *Decoder) readLength(r stream.Reader) (value uint32, isReference bool, err error) {
	header, err := varint.DecodeUnsigned(r)
	if err != nil {
		return 0, false, err
	}

	return header >> 1, header&ReferenceBit == 0, nil
}

// readStringValue decodes a bare U29-prefixed UTF-8 string: the String
// element body, and also the wire representation reused for class names,
// static property names, and dict/array associative keys.
func (d *Decoder) readStringValue(r stream.Reader) (string, error) {
	length, isReference, err := d.readLength(r)
	if err != nil {
		return "", err
	}

	if isReference {
		s, ok := d.ctx.StringByIndex(int(length))
		if !ok {
			return "", errs.ErrUnresolvedReference
		}

		return s, nil
	}

	if length == 0 {
		return "", nil
	}

	buf := make([]byte, length)
	if err := r.ReadFull(buf); err != nil {
		return "", err
	}

	s := string(buf)
	d.ctx.AddString(s)

	return s, nil
}

func (d *Decoder) readDate(r stream.Reader) (any, error) {
	ref, isReference, err := d.readLength(r)
	if err != nil {
		return nil, err
	}

	if isReference {
		obj, ok := d.ctx.ObjectByIndex(int(ref))
		if !ok {
			return nil, errs.ErrUnresolvedReference
		}

		return obj, nil
	}

	handle := new(time.Time)
	d.ctx.AddObject(handle)

	ms, err := r.ReadF64()
	if err != nil {
		return nil, err
	}

	t := time.UnixMilli(int64(ms)).UTC()
	if d.cfg.TimezoneOffset != 0 {
		t = t.Add(d.cfg.TimezoneOffset)
	}

	*handle = t

	return handle, nil
}

func (d *Decoder) readArray(r stream.Reader) (any, error) {
	size, isReference, err := d.readLength(r)
	if err != nil {
		return nil, err
	}

	if isReference {
		obj, ok := d.ctx.ObjectByIndex(int(size))
		if !ok {
			return nil, errs.ErrUnresolvedReference
		}

		return obj, nil
	}

	key, err := d.readStringValue(r)
	if err != nil {
		return nil, err
	}

	if key == "" {
		lst := new(List)
		d.ctx.AddObject(lst)

		for i := uint32(0); i < size; i++ {
			el, err := d.readElement(r)
			if err != nil {
				return nil, err
			}

			*lst = append(*lst, el)
		}

		return lst, nil
	}

	ma := NewMixedArray()
	d.ctx.AddObject(ma)

	for key != "" {
		val, err := d.readElement(r)
		if err != nil {
			return nil, err
		}

		ma.Set(key, val)

		key, err = d.readStringValue(r)
		if err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < size; i++ {
		el, err := d.readElement(r)
		if err != nil {
			return nil, err
		}

		// Last-writer-wins: the dense pass runs after the associative pass
		// and overwrites any coincident key.
		ma.Set(strconv.Itoa(int(i)), el)
	}

	return ma, nil
}

// resolveClassDef reads the class-trait portion of an Object header. rest
// is the original U29 header with the object's own inline bit already
// removed (i.e. shifted right by one).
func (d *Decoder) resolveClassDef(r stream.Reader, rest uint32) (*ClassDefinition, error) {
	if rest&ReferenceBit == 0 {
		idx := int(rest >> 1)

		cd, ok := d.ctx.GetClassByIndex(idx)
		if !ok {
			return nil, errs.ErrUnresolvedReference
		}

		return cd, nil
	}

	rest2 := rest >> 1

	name, err := d.readStringValue(r)
	if err != nil {
		return nil, err
	}

	var alias registry.ClassAlias

	switch {
	case name == "":
		alias = registry.NewTypedObjectAlias("")
	case d.cfg.Registry != nil:
		alias, _ = d.cfg.Registry.ByName(name)
	}

	if alias == nil {
		if d.cfg.Strict {
			return nil, fmt.Errorf("%s: %w", name, errs.ErrUnknownClassAlias)
		}

		alias = registry.NewTypedObjectAlias(name)
	}

	cd := &ClassDefinition{
		Alias:    alias,
		Encoding: ObjectEncoding(rest2 & 0x03),
	}

	attrLen := int(rest2 >> 2)
	if attrLen > 0 {
		cd.StaticProperties = make([]string, attrLen)

		for i := range cd.StaticProperties {
			s, err := d.readStringValue(r)
			if err != nil {
				return nil, err
			}

			cd.StaticProperties[i] = s
		}
	}

	d.ctx.AddClass(cd, alias.Klass())

	return cd, nil
}

func (d *Decoder) readStatic(r stream.Reader, cd *ClassDefinition, attrs map[string]any) error {
	for _, attr := range cd.StaticProperties {
		v, err := d.readElement(r)
		if err != nil {
			return err
		}

		attrs[attr] = v
	}

	return nil
}

func (d *Decoder) readDynamic(r stream.Reader, attrs map[string]any) error {
	for {
		key, err := d.readStringValue(r)
		if err != nil {
			return err
		}

		if key == "" {
			return nil
		}

		v, err := d.readElement(r)
		if err != nil {
			return err
		}

		attrs[key] = v
	}
}

func (d *Decoder) readObject(r stream.Reader) (any, error) {
	header, err := varint.DecodeUnsigned(r)
	if err != nil {
		return nil, err
	}

	if header&ReferenceBit == 0 {
		idx := int(header >> 1)

		obj, ok := d.ctx.ObjectByIndex(idx)
		if !ok {
			return nil, errs.ErrUnresolvedReference
		}

		return d.unwrapProxy(obj), nil
	}

	cd, err := d.resolveClassDef(r, header>>1)
	if err != nil {
		return nil, err
	}

	name := ""
	if cd.Alias != nil {
		name = cd.Alias.Alias()
	}

	if name == AliasArrayCollection || name == AliasObjectProxy {
		proxy := &Proxy{ClassName: name}
		d.ctx.AddObject(proxy)

		inner, err := d.readElement(r)
		if err != nil {
			return nil, err
		}

		proxy.Value = inner

		return d.unwrapProxy(proxy), nil
	}

	obj, err := cd.Alias.CreateInstance()
	if err != nil {
		return nil, err
	}

	d.ctx.AddObject(obj)

	switch cd.Encoding {
	case EncodingExternal, EncodingProxy:
		ext, ok := obj.(registry.Externalizable)
		if !ok {
			return nil, errs.ErrExternalizableRequired
		}

		in := stream.NewInput(r, d.readElement)
		if err := ext.ReadExternal(in); err != nil {
			return nil, err
		}

		return d.unwrapProxy(obj), nil
	case EncodingDynamic:
		attrs := make(map[string]any)
		if err := d.readStatic(r, cd, attrs); err != nil {
			return nil, err
		}
		if err := d.readDynamic(r, attrs); err != nil {
			return nil, err
		}
		if err := cd.Alias.ApplyAttributes(obj, attrs); err != nil {
			return nil, err
		}
	case EncodingStatic:
		attrs := make(map[string]any)
		if err := d.readStatic(r, cd, attrs); err != nil {
			return nil, err
		}
		if err := cd.Alias.ApplyAttributes(obj, attrs); err != nil {
			return nil, err
		}
	default:
		return nil, errs.ErrUnknownEncoding
	}

	return d.unwrapProxy(obj), nil
}

func (d *Decoder) unwrapProxy(obj any) any {
	if !d.cfg.UseProxies {
		return obj
	}

	if p, ok := obj.(*Proxy); ok {
		return p.Value
	}

	return obj
}

// readXML handles both XMLDocument (0x07, legacy=true) and XMLString
// (0x0B, legacy=false); both flatten to UTF-8 text on the wire and differ
// only in whether the decoded node is tracked in the legacy-XML table.
func (d *Decoder) readXML(r stream.Reader, legacy bool) (any, error) {
	length, isReference, err := d.readLength(r)
	if err != nil {
		return nil, err
	}

	if isReference {
		obj, ok := d.ctx.ObjectByIndex(int(length))
		if !ok {
			return nil, errs.ErrUnresolvedReference
		}

		return obj, nil
	}

	buf := make([]byte, length)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}

	doc, err := d.codec.Parse(buf)
	if err != nil {
		return nil, err
	}

	d.ctx.AddObject(doc)

	if legacy {
		d.ctx.AddLegacyXML(doc)
	}

	return doc, nil
}

func (d *Decoder) readByteArray(r stream.Reader) (any, error) {
	length, isReference, err := d.readLength(r)
	if err != nil {
		return nil, err
	}

	if isReference {
		obj, ok := d.ctx.ObjectByIndex(int(length))
		if !ok {
			return nil, errs.ErrUnresolvedReference
		}

		return obj, nil
	}

	raw := make([]byte, length)
	if err := r.ReadFull(raw); err != nil {
		return nil, err
	}

	data, compressed := decompressByteArray(raw)

	obj := &ByteArray{Data: data, Compressed: compressed}
	d.ctx.AddObject(obj)

	return obj, nil
}
