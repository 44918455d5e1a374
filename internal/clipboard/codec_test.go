package clipboard

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"
)

// sealRaw encrypts an arbitrary payload the way Encode does.
func sealRaw(t *testing.T, payload []byte, originKey string) string {
	t.Helper()
	buf := make([]byte, saltSize+chacha20poly1305.NonceSizeX)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	aead, err := newAEAD(originKey, buf[:saltSize])
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(aead.Seal(buf, buf[saltSize:], payload, nil))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Section{Type: "markdown", Content: document.Content{"text": "hello", "nested": map[string]any{"n": 1.5}}}

	text, err := Encode(in, "https://example.com")
	require.NoError(t, err)
	require.NotContains(t, text, "hello")

	out, ok := Decode(text, "https://example.com")
	require.True(t, ok)
	require.Equal(t, "markdown", out.Type)
	require.True(t, in.Content.Equal(out.Content))
}

func TestEncodeIsRandomized(t *testing.T) {
	in := Section{Type: "markdown", Content: document.Content{"text": "x"}}
	a, err := Encode(in, "k")
	require.NoError(t, err)
	b, err := Encode(in, "k")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestDecodeWrongKey(t *testing.T) {
	text, err := Encode(Section{Type: "markdown", Content: document.Content{"text": "x"}}, "k1")
	require.NoError(t, err)

	out, ok := Decode(text, "k2")
	require.False(t, ok)
	require.Nil(t, out)
}

func TestDecodeCorruptInput(t *testing.T) {
	text, err := Encode(Section{Type: "markdown", Content: document.Content{"text": "x"}}, "k1")
	require.NoError(t, err)

	for _, bad := range []string{"", "not base64 !!", "c2hvcnQ", text[:len(text)-4], text + "AAAA"} {
		out, ok := Decode(bad, "k1")
		require.False(t, ok, "input %q", bad)
		require.Nil(t, out)
	}
}

func TestDecodeRejectsInvalidShapes(t *testing.T) {
	payloads := []string{
		`not json`,
		`null`,
		`"markdown"`,
		`[]`,
		`{"content":{}}`,
		`{"type":1,"content":{}}`,
		`{"type":"markdown"}`,
		`{"type":"markdown","content":null}`,
		`{"type":"markdown","content":[]}`,
		`{"type":"markdown","content":"text"}`,
	}
	for _, p := range payloads {
		out, ok := Decode(sealRaw(t, []byte(p), "k1"), "k1")
		require.False(t, ok, "payload %s", p)
		require.Nil(t, out)
	}

	out, ok := Decode(sealRaw(t, []byte(`{"type":"markdown","content":{}}`), "k1"), "k1")
	require.True(t, ok)
	require.Equal(t, "markdown", out.Type)
	require.NotNil(t, out.Content)
}

func TestRedactSectionContent(t *testing.T) {
	providers := plugin.NewDefaultRegistry()
	providers.Register("plain", plainProvider{})

	img := Section{Type: plugin.ImageType, Content: document.Content{"sourceType": "internal", "sourceUrl": "cdn://room-media/r1/a.png"}}
	redacted := RedactSectionContent(img, providers, "r2")
	require.Equal(t, "", redacted.Content["sourceUrl"])
	require.Equal(t, "cdn://room-media/r1/a.png", img.Content["sourceUrl"])

	kept := RedactSectionContent(img, providers, "r1")
	require.Equal(t, "cdn://room-media/r1/a.png", kept.Content["sourceUrl"])

	plain := Section{Type: "plain", Content: document.Content{"url": "cdn://room-media/r1/a.png"}}
	require.Equal(t, plain, RedactSectionContent(plain, providers, "r2"))

	unknown := Section{Type: "unknown", Content: document.Content{"a": "b"}}
	require.Equal(t, unknown, RedactSectionContent(unknown, providers, "r2"))
}

type plainProvider struct{}

func (plainProvider) GetCdnResources(content document.Content) []string { return nil }
