package validators

import "regexp"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmailValid applies the same format rule on every submission path.
func IsEmailValid(email string) bool {
	return emailRe.MatchString(email)
}
