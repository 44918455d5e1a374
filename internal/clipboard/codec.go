// Package clipboard encodes a single section for copy and paste between
// documents. The payload is sealed with a key derived from an origin key so
// that only the same origin can read it back.
package clipboard

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const saltSize = 16

var hkdfInfo = []byte("section-clipboard")

// Section is the part of a section that travels through the clipboard.
type Section struct {
	Type    string           `json:"type"`
	Content document.Content `json:"content"`
}

// Encode serializes section and encrypts it with originKey. It only fails
// when the content cannot be encoded as JSON.
func Encode(section Section, originKey string) (string, error) {
	payload, err := json.Marshal(section)
	if err != nil {
		return "", fmt.Errorf("encode clipboard section: %w", err)
	}

	buf := make([]byte, saltSize+chacha20poly1305.NonceSizeX, saltSize+chacha20poly1305.NonceSizeX+len(payload)+chacha20poly1305.Overhead)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("clipboard: read random: %v", err))
	}
	salt, nonce := buf[:saltSize], buf[saltSize:]

	aead, err := newAEAD(originKey, salt)
	if err != nil {
		panic(fmt.Sprintf("clipboard: %v", err))
	}
	sealed := aead.Seal(buf, nonce, payload, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode reverses Encode. Any failure, including a wrong originKey or a
// payload that is not {type: string, content: object}, yields false.
func Decode(text, originKey string) (*Section, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(text)
	if err != nil || len(raw) < saltSize+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return nil, false
	}
	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	ciphertext := raw[saltSize+chacha20poly1305.NonceSizeX:]

	aead, err := newAEAD(originKey, salt)
	if err != nil {
		return nil, false
	}
	payload, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, false
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, false
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, false
	}
	sectionType, ok := obj["type"].(string)
	if !ok {
		return nil, false
	}
	content, ok := obj["content"].(map[string]any)
	if !ok {
		return nil, false
	}
	return &Section{Type: sectionType, Content: document.Content(content)}, true
}

// RedactSectionContent rewrites the content of section for use in the
// target scope when its provider supports redaction. Otherwise section is
// returned unchanged.
func RedactSectionContent(section Section, providers plugin.Lookup, targetScopeID string) Section {
	p, ok := providers.Provider(section.Type)
	if !ok {
		return section
	}
	r, ok := p.(plugin.Redactor)
	if !ok {
		return section
	}
	return Section{Type: section.Type, Content: r.RedactContent(section.Content, targetScopeID)}
}

func newAEAD(originKey string, salt []byte) (cipher.AEAD, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(originKey), salt, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}
