package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GetGravatarURL generates a Gravatar URL for the given email address
// Default size is 80px if not specified
func GetGravatarURL(email string, size int) string {
	if size <= 0 {
		size = 80
	}

	email = strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(email))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}
