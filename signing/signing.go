// Package signing signs and verifies request bodies with an HMAC shared secret.
package signing

import (
	"crypto"
	"crypto/hmac"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	// Register the hash functions used by Sign.
	_ "crypto/sha256"
	_ "crypto/sha512"
)

type Encoding int

const (
	EncodingUnknown Encoding = iota // Unknown encoding
	EncodingHex                     // Hex encoding
	EncodingBase64                  // Base64 encoding
)

var ErrSignatureMismatch = errors.New("signature mismatch")

// Sign returns an HMAC of payload prefixed with the hash name, e.g. "sha256=<hex>".
func Sign(payload []byte, secret []byte, algo crypto.Hash, enc Encoding) ([]byte, error) {
	if !algo.Available() {
		return nil, fmt.Errorf("hash function %s is not available", algo)
	}
	mac := hmac.New(algo.New, secret)
	if _, err := mac.Write(payload); err != nil {
		return nil, fmt.Errorf("mac.Write: %w", err)
	}
	sum := mac.Sum(nil)
	label := algoLabel(algo)

	switch enc {
	case EncodingHex:
		return []byte(label + "=" + hex.EncodeToString(sum)), nil
	case EncodingBase64:
		return []byte(label + "=" + base64.StdEncoding.EncodeToString(sum)), nil
	}
	return nil, fmt.Errorf("unsupported encoding")
}

// Verify checks a "sha256=<hex>" style signature header against payload in constant time.
func Verify(payload []byte, secret []byte, signature string) error {
	label, _, ok := strings.Cut(signature, "=")
	if !ok {
		return fmt.Errorf("malformed signature %q", signature)
	}

	var algo crypto.Hash
	switch label {
	case algoLabel(crypto.SHA256):
		algo = crypto.SHA256
	case algoLabel(crypto.SHA512):
		algo = crypto.SHA512
	default:
		return fmt.Errorf("unsupported signature algorithm %q", label)
	}

	want, err := Sign(payload, secret, algo, EncodingHex)
	if err != nil {
		return err
	}
	if !hmac.Equal(want, []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// "SHA-256" -> "sha256"
func algoLabel(algo crypto.Hash) string {
	return strings.Replace(strings.ToLower(algo.String()), "-", "", 1)
}
