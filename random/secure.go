package random

import (
	cryptorand "crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"math/big"

	"github.com/gofrs/uuid"

	"github.com/garnet-lang/garnet/exception"
)

// DefaultByteLength is the number of random bytes produced when no length
// argument is given, matching the reference SecureRandom behavior.
const DefaultByteLength = 16

const alphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SecureSource produces cryptographically secure randomness for the
// SecureRandom class. It is deliberately not seedable.
type SecureSource interface {
	// Name identifies the backend for capability descriptors.
	Name() string

	// Bytes returns n random bytes. Negative n is an ArgumentError.
	Bytes(n int) ([]byte, error)

	// Hex returns the hex encoding of n random bytes.
	Hex(n int) (string, error)

	// Base64 returns the base64 encoding of n random bytes.
	Base64(n int) (string, error)

	// Alphanumeric returns n random characters from [A-Za-z0-9].
	Alphanumeric(n int) (string, error)

	// Number returns a uniform value in [0, max). Non-positive max is an
	// ArgumentError.
	Number(max int64) (int64, error)

	// Float returns a uniform value in [0.0, 1.0).
	Float() (float64, error)

	// UUID returns a random (version 4) UUID string.
	UUID() (string, error)
}

// CryptoSource is the SecureSource backed by the operating system CSPRNG.
type CryptoSource struct{}

func (CryptoSource) Name() string {
	return "crypto"
}

func (CryptoSource) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, exception.ArgumentError("negative string size (or size too big)")
	}
	buf := make([]byte, n)
	if _, err := cryptorand.Read(buf); err != nil {
		return nil, exception.RuntimeError("failed to read random bytes: %v", err)
	}
	return buf, nil
}

func (c CryptoSource) Hex(n int) (string, error) {
	buf, err := c.Bytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (c CryptoSource) Base64(n int) (string, error) {
	buf, err := c.Bytes(n)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func (c CryptoSource) Alphanumeric(n int) (string, error) {
	if n < 0 {
		return "", exception.ArgumentError("negative string size (or size too big)")
	}
	out := make([]byte, n)
	bound := big.NewInt(int64(len(alphanumericAlphabet)))
	for i := range out {
		idx, err := cryptorand.Int(cryptorand.Reader, bound)
		if err != nil {
			return "", exception.RuntimeError("failed to read random bytes: %v", err)
		}
		out[i] = alphanumericAlphabet[idx.Int64()]
	}
	return string(out), nil
}

func (CryptoSource) Number(max int64) (int64, error) {
	if max <= 0 {
		return 0, exception.ArgumentError("invalid argument - %d", max)
	}
	n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(max))
	if err != nil {
		return 0, exception.RuntimeError("failed to read random bytes: %v", err)
	}
	return n.Int64(), nil
}

func (c CryptoSource) Float() (float64, error) {
	n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0, exception.RuntimeError("failed to read random bytes: %v", err)
	}
	return float64(n.Int64()) / (1 << 53), nil
}

func (CryptoSource) UUID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", exception.RuntimeError("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}
