// Package amf3 implements a bidirectional, bit-exact codec for the AMF3
// (Action Message Format, version 3) wire format used by Flash Player and
// Flex for ActionScript 3 object exchange.
//
// The package translates between a Go value graph and the AMF3 byte
// stream, preserving reference identity for strings, objects, class
// traits, and legacy XML across a single encode or decode pass. Byte
// streams, class-alias lookup, and XML parsing are external collaborators
// reachable through the stream, registry, and xmldoc packages respectively;
// this package owns only the wire format itself.
package amf3

// Marker is the single-byte type tag that opens every AMF3-encoded value.
type Marker byte

// The 13 AMF3 wire types.
const (
	MarkerUndefined  Marker = 0x00
	MarkerNull       Marker = 0x01
	MarkerBoolFalse  Marker = 0x02
	MarkerBoolTrue   Marker = 0x03
	MarkerInteger    Marker = 0x04
	MarkerNumber     Marker = 0x05
	MarkerString     Marker = 0x06
	MarkerXMLDoc     Marker = 0x07
	MarkerDate       Marker = 0x08
	MarkerArray      Marker = 0x09
	MarkerObject     Marker = 0x0A
	MarkerXMLString  Marker = 0x0B
	MarkerByteArray  Marker = 0x0C
)

func (m Marker) String() string {
	switch m {
	case MarkerUndefined:
		return "Undefined"
	case MarkerNull:
		return "Null"
	case MarkerBoolFalse:
		return "BoolFalse"
	case MarkerBoolTrue:
		return "BoolTrue"
	case MarkerInteger:
		return "Integer"
	case MarkerNumber:
		return "Number"
	case MarkerString:
		return "String"
	case MarkerXMLDoc:
		return "XMLDocument"
	case MarkerDate:
		return "Date"
	case MarkerArray:
		return "Array"
	case MarkerObject:
		return "Object"
	case MarkerXMLString:
		return "XMLString"
	case MarkerByteArray:
		return "ByteArray"
	default:
		return "Unknown"
	}
}

// undefinedType is the host representation of the AMF3 Undefined value,
// distinct from Null. Use the Undefined package value, never a zero value
// of this type.
type undefinedType struct{}

// Undefined is the sentinel host value that round-trips to/from the AMF3
// Undefined marker (0x00), mirroring pyamf.Undefined.
var Undefined = undefinedType{}

// ReferenceBit is set on a U29 header's low bit to mark an inline (value)
// form; a clear bit marks a reference form. Reused across String, Date,
// Array, Object, ByteArray, and XML headers.
const ReferenceBit = 0x01
