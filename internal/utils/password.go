package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash stored in users.password_hash.
// The cost comes from configuration so tests can use the cheap minimum
// while production runs a slower one.
func HashPassword(plain string, cost int) (string, error) {
    b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.  Login
// treats a mismatch the same as an unknown email.
func VerifyPassword(hash, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
