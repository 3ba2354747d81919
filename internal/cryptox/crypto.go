// Package cryptox wraps scrypt to hash and check company passwords with a
// per-credential random salt and a process-wide secret pepper.
//
// The pepper is a second secret that is never stored next to the (digest,
// salt) pair in the database, so a database-only leak cannot be attacked
// offline without also compromising the pepper source.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/scrypt"
)

// ErrCryptoInit is returned when the pepper cannot be loaded at startup.
// Every credential check depends on the pepper, so this is fatal.
var ErrCryptoInit = errors.New("error initializing crypto")

// Defaults for the scrypt work factor and output sizes. N/R/P follow the
// usual interactive-login cost (N=2^14, r=8, p=1); raising N makes
// brute-forcing proportionally more expensive.
const (
	DefaultHashBytes = 128
	DefaultSaltBytes = 128
	DefaultN         = 1 << 14
	DefaultR         = 8
	DefaultP         = 1
)

// Params holds the tunable scrypt cost parameters and output sizes.
type Params struct {
	N         int
	R         int
	P         int
	SaltBytes int
	HashBytes int
}

// DefaultParams returns the parameter set used in production.
func DefaultParams() Params {
	return Params{
		N:         DefaultN,
		R:         DefaultR,
		P:         DefaultP,
		SaltBytes: DefaultSaltBytes,
		HashBytes: DefaultHashBytes,
	}
}

// Crypto derives and verifies password digests. The pepper lives only in
// process memory; it is never logged or transmitted.
type Crypto struct {
	pepper []byte
	params Params
}

// New constructs a Crypto instance with an explicit pepper. An empty pepper
// is a configuration error.
func New(pepper []byte, params Params) (*Crypto, error) {
	if len(pepper) == 0 {
		return nil, ErrCryptoInit
	}
	return &Crypto{pepper: pepper, params: params}, nil
}

// pepperFile is the JSON shape of the pepper secret source.
type pepperFile struct {
	Pepper string `json:"pepper"`
}

// NewFromFile loads the pepper from a JSON file with a "pepper" key and
// constructs a Crypto instance. Missing file, malformed JSON or an empty
// pepper value all map to ErrCryptoInit.
func NewFromFile(path string, params Params) (*Crypto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoInit, err)
	}

	var pf pepperFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoInit, err)
	}

	return New([]byte(pf.Pepper), params)
}

// Hash derives a digest for password with a fresh random salt and the
// process-wide pepper. It returns the digest and the generated salt; the salt
// is stored alongside the digest, the pepper is not.
func (c *Crypto) Hash(password string) (digest, salt []byte, err error) {
	salt = make([]byte, c.params.SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("could not generate salt: %w", err)
	}

	digest, err = c.derive(password, salt)
	if err != nil {
		return nil, nil, err
	}

	return digest, salt, nil
}

// Check recomputes the digest for password from salt and the pepper and
// compares it to the stored digest in constant time. A derivation failure
// maps to false, never to an error.
func (c *Crypto) Check(password string, digest, salt []byte) bool {
	candidate, err := c.derive(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

func (c *Crypto) derive(password string, salt []byte) ([]byte, error) {
	// salt and pepper are concatenated into one scrypt salt input
	seasoned := make([]byte, 0, len(salt)+len(c.pepper))
	seasoned = append(seasoned, salt...)
	seasoned = append(seasoned, c.pepper...)

	digest, err := scrypt.Key([]byte(password), seasoned, c.params.N, c.params.R, c.params.P, c.params.HashBytes)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}
	return digest, nil
}
