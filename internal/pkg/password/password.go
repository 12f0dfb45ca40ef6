package password

import "golang.org/x/crypto/bcrypt"

// Hash returns a bcrypt digest of the plaintext at the default cost. bcrypt
// salts each digest, so hashing the same password twice yields different
// output.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the digest. A malformed digest
// verifies as false; this function never returns an error.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
