package amf3

// The two Flex messaging alias names whose wire representation is always a
// single nested element: an ArrayCollection externalizes its source Array,
// an ObjectProxy externalizes its source Object. Config.UseProxies toggles
// whether the encoder wraps outgoing lists/dicts in one of these and
// whether the decoder unwraps an incoming one back to its bare Value.
const (
	AliasArrayCollection = "flex.messaging.io.ArrayCollection"
	AliasObjectProxy     = "flex.messaging.io.ObjectProxy"
)

// Proxy is the host representation of a decoded ArrayCollection/ObjectProxy
// wrapper when Config.UseProxies is false, or an intermediate the decoder
// builds and immediately unwraps when it is true. Value holds whatever the
// proxy's single externalized element decoded to (a *List or *MixedArray in
// the common case).
type Proxy struct {
	ClassName string
	Value     any
}
