package xmldoc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawCodec_RoundTrip(t *testing.T) {
	var c RawCodec

	doc, err := c.Parse([]byte("<a><b/></a>"))
	require.NoError(t, err)
	require.Equal(t, "<a><b/></a>", doc.XML())

	out, err := c.Serialize(doc)
	require.NoError(t, err)
	require.Equal(t, []byte("<a><b/></a>"), out)
}
