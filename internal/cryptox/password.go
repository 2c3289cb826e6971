// Package cryptox holds gophauth's cryptographic primitives: the salted
// password hasher and the session fingerprint.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultMemory is the argon2id memory parameter in KiB.
	DefaultMemory uint32 = 64 * 1024
	// DefaultThreads is the argon2id parallelism parameter.
	DefaultThreads uint8 = 4

	saltLen = 16
	keyLen  = 32
	scheme  = "argon2id"
)

// ErrInvalidHash is returned when a salt or stored hash cannot be parsed.
var ErrInvalidHash = errors.New("invalid password hash encoding")

var b64 = base64.RawStdEncoding

// Hasher derives and verifies salted password hashes. Hashes are argon2id in
// the PHC string format, which carries the salt and the cost parameters:
//
//	$argon2id$v=19$m=65536,t=16,p=4$<salt>$<key>
//
// The work-cost factor is the argon2id time parameter. Hashes written by the
// previous crypt-blowfish deployment ($2a$, $2b$, $2y$) still verify.
type Hasher struct {
	cost    uint32
	memory  uint32
	threads uint8
	now     func() time.Time
}

type HasherOption func(*Hasher)

// WithMemory sets the argon2id memory parameter, in KiB.
func WithMemory(kib uint32) HasherOption {
	return func(h *Hasher) {
		if kib > 0 {
			h.memory = kib
		}
	}
}

// WithThreads sets the argon2id parallelism.
func WithThreads(n uint8) HasherOption {
	return func(h *Hasher) {
		if n > 0 {
			h.threads = n
		}
	}
}

// NewHasher returns a hasher whose generated salts carry cost.
func NewHasher(cost uint32, opts ...HasherOption) *Hasher {
	if cost == 0 {
		cost = 1
	}
	h := &Hasher{cost: cost, memory: DefaultMemory, threads: DefaultThreads, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GenerateSalt returns a fresh salt string embedding the hasher's cost
// parameters. The raw salt is a timestamp seed mixed with random bytes,
// hashed and truncated to the salt length.
func (h *Hasher) GenerateSalt() (string, error) {
	seed := make([]byte, 8, 8+saltLen)
	binary.BigEndian.PutUint64(seed, uint64(h.now().UnixNano()))
	seed = append(seed, common.GenerateRandByteArray(saltLen)...)
	sum := sha256.Sum256(seed)

	return fmt.Sprintf("%s%s$", prefix(h.memory, h.cost, h.threads), b64.EncodeToString(sum[:saltLen])), nil
}

// Hash hashes password with salt. An empty salt generates a new one. The salt
// may also be a complete stored hash, in which case its parameters and salt
// are reused, so Hash(p, Hash(p, s)) == Hash(p, s).
func (h *Hasher) Hash(password, salt string) (string, error) {
	if salt == "" {
		var err error
		if salt, err = h.GenerateSalt(); err != nil {
			return "", err
		}
	}

	p, err := parse(salt)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, keyLen)
	return fmt.Sprintf("%s%s$%s", prefix(p.memory, p.time, p.threads), p.encodedSalt, b64.EncodeToString(key)), nil
}

// Verify reports whether password matches storedHash. The recomputed hash is
// compared in constant time.
func (h *Hasher) Verify(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	if isBcrypt(storedHash) {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
	}

	candidate, err := h.Hash(password, storedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1
}

// NeedsRehash reports whether storedHash was produced by a legacy scheme or
// with parameters other than the hasher's current ones.
func (h *Hasher) NeedsRehash(storedHash string) bool {
	if isBcrypt(storedHash) {
		return true
	}
	p, err := parse(storedHash)
	if err != nil {
		return true
	}
	return p.time != h.cost || p.memory != h.memory || p.threads != h.threads
}

type params struct {
	memory      uint32
	time        uint32
	threads     uint8
	salt        []byte
	encodedSalt string
}

func prefix(memory, iterations uint32, threads uint8) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$", scheme, argon2.Version, memory, iterations, threads)
}

// parse reads the parameters and salt from either a salt string or a full
// hash: "", scheme, version, params, salt[, key].
func parse(s string) (params, error) {
	parts := strings.Split(s, "$")
	if len(parts) < 5 || parts[0] != "" || parts[1] != scheme {
		return params{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params{}, ErrInvalidHash
	}

	var p params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return params{}, ErrInvalidHash
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return params{}, ErrInvalidHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params{}, ErrInvalidHash
	}
	p.salt = salt
	p.encodedSalt = parts[4]

	return p, nil
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
