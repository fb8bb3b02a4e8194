// Package vault turns a user-supplied key hint into a symmetric key and
// seals store contents with it.
//
// Blob layout:
//
//	[version: 1 byte (0x01)] [nonce: 24 bytes] [ciphertext+tag: N+16 bytes]
//
// The version byte is authenticated as additional data, so rewriting it
// fails decryption like any other tampering.
package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of a derived key in bytes.
const KeySize = 32

// BlobVersion is the leading byte of every sealed blob.
const BlobVersion byte = 0x01

// Overhead is the number of bytes a sealed blob adds to its plaintext.
const Overhead = 1 + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead

// ErrDecryptionFailed is returned for every Open failure. Short input, an
// unknown version and a failed authentication are deliberately
// indistinguishable.
var ErrDecryptionFailed = errors.New("vault: decryption failed")

// salt is mixed into every derivation. Changing it orphans every existing
// store.
var salt = []byte{
	0x85, 0x4E, 0x69, 0xFD, 0x6A, 0xEE, 0x45, 0x29,
	0xB8, 0xA9, 0x5F, 0x6B, 0x3E, 0xBF, 0x1D, 0xD9,
	0x63, 0xAB, 0x91, 0x5D, 0x87, 0xAB, 0xED, 0x3B,
	0x63, 0xA7, 0xFA, 0x8A, 0x51, 0x40, 0x8A, 0x9F,
}

// Key is a derived symmetric key.
type Key [KeySize]byte

// DeriveKey runs HKDF-SHA256 over hint with the embedded salt and an empty
// info string. The same hint always yields the same key.
func DeriveKey(hint string) (Key, error) {
	var key Key
	reader := hkdf.New(sha256.New, []byte(hint), salt, nil)
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		key.Zero()
		return Key{}, fmt.Errorf("deriving key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext under k with a fresh random nonce.
func (k *Key) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(k[:])
	if err != nil {
		return nil, fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}

	var nonce [chacha20poly1305.NonceSizeX]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	out := make([]byte, 1+len(nonce), Overhead+len(plaintext))
	out[0] = BlobVersion
	copy(out[1:], nonce[:])
	return aead.Seal(out, nonce[:], plaintext, out[:1]), nil
}

// Open authenticates and decrypts a blob produced by Seal. Any failure
// returns ErrDecryptionFailed and no plaintext.
func (k *Key) Open(blob []byte) ([]byte, error) {
	if len(blob) < Overhead || blob[0] != BlobVersion {
		return nil, ErrDecryptionFailed
	}
	aead, err := chacha20poly1305.NewX(k[:])
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	nonce := blob[1 : 1+chacha20poly1305.NonceSizeX]
	plaintext, err := aead.Open(nil, nonce, blob[1+chacha20poly1305.NonceSizeX:], blob[:1])
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// Digest is a BLAKE3 hash of data keyed with k. Two digests match only if
// both the data and the key do.
func (k *Key) Digest(data []byte) [32]byte {
	hasher, err := blake3.NewKeyed(k[:])
	if err != nil {
		panic("vault: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}

// Zero overwrites the key material.
func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// Seal derives the key for hint and seals plaintext with it.
func Seal(hint string, plaintext []byte) ([]byte, error) {
	key, err := DeriveKey(hint)
	if err != nil {
		return nil, err
	}
	defer key.Zero()
	return key.Seal(plaintext)
}

// Open derives the key for hint and opens blob with it.
func Open(hint string, blob []byte) ([]byte, error) {
	key, err := DeriveKey(hint)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	defer key.Zero()
	return key.Open(blob)
}
