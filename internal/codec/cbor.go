// Package codec is the single place the on-disk document encoding is
// configured. Callers import codec rather than fxamacker/cbor directly so
// every document is written with the same options.
package codec

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// maxDepth bounds how deeply nested a decoded document may be. Each outline
// generation costs two levels (the node map and its children array), so the
// library's ceiling still allows trees tens of thousands of levels deep.
const maxDepth = 65535

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. The same screen
// always encodes to the same bytes.
var encMode cbor.EncMode

// decMode rejects duplicate map keys and ignores unknown fields.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels: maxDepth,
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v deterministically.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder is a CBOR stream encoder.
type Encoder = cbor.Encoder

// NewEncoder returns an encoder writing deterministic CBOR to w.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// Diagnose renders data in CBOR diagnostic notation (RFC 8949 §8). Useful
// when inspecting a decrypted store by hand.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
