package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/go-sif/tabula/errors"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := strings.Repeat("Item_Identifier,Item_Weight\nFDA15,9.3\n", 200)
	for _, c := range []Codec{None, LZ4, Zstd} {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			require.Nil(t, err)
			_, err = io.WriteString(w, payload)
			require.Nil(t, err)
			require.Nil(t, w.Close())
			if c != None {
				require.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(&buf, c)
			require.Nil(t, err)
			decoded, err := io.ReadAll(r)
			require.Nil(t, err)
			require.Nil(t, r.Close())
			require.Equal(t, payload, string(decoded))
		})
	}
}

func TestParseCodec(t *testing.T) {
	c, err := ParseCodec("ZSTD")
	require.Nil(t, err)
	require.Equal(t, Zstd, c)
	c, err = ParseCodec("")
	require.Nil(t, err)
	require.Equal(t, None, c)
	_, err = ParseCodec("gzip")
	require.True(t, errors.IsInvalidArgument(err))
}

func TestFromPath(t *testing.T) {
	require.Equal(t, LZ4, FromPath("out/part-00000.csv.lz4"))
	require.Equal(t, Zstd, FromPath("out/part-00000.json.zst"))
	require.Equal(t, None, FromPath("out/part-00000.parquet"))
	require.Equal(t, "out/part-00000.csv", TrimExtension("out/part-00000.csv.lz4"))
}
