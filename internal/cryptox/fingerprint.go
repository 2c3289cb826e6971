package cryptox

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
)

// Fingerprint binds a session to the browser and network it was opened
// from: sha1(md5(secretKey) + userAgent + clientIP), both digests in hex.
func Fingerprint(secretKey, userAgent, clientIP string) string {
	key := md5.Sum([]byte(secretKey))

	h := sha1.New()
	h.Write([]byte(hex.EncodeToString(key[:])))
	h.Write([]byte(userAgent))
	h.Write([]byte(clientIP))

	return hex.EncodeToString(h.Sum(nil))
}
