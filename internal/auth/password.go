package auth

import "golang.org/x/crypto/bcrypt"

const (
	// HashCost is the bcrypt work factor for stored credentials.
	HashCost = 12

	// MinPasswordLength applies to registration and password changes,
	// never to login.
	MinPasswordLength = 8
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
