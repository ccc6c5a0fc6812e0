package hash

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const tempPasswordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TempPassword returns n characters drawn uniformly from an alphabet without
// look-alike glyphs.
func TempPassword(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
