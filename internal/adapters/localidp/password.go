package localidp

import (
	"sync"

	"github.com/alexedwards/argon2id"
)

// DefaultPasswordParams are the argon2id parameters used for new hashes.
var DefaultPasswordParams = &argon2id.Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword returns an encoded argon2id hash of password.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, DefaultPasswordParams)
}

// ComparePassword reports whether password matches the encoded hash.
func ComparePassword(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnCompare spends the same work as a real comparison so unknown emails
// answer in about the same time as wrong passwords.
func burnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("aula-unknown-account")
	})
	if dummyHash != "" {
		_, _ = ComparePassword(password, dummyHash)
	}
}
