/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to generate UUID message and connection identifiers, validate
client-generated guest IDs, and produce fallback nicknames for anonymous visitors.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// GuestIDPrefix is the required prefix for client-generated guest IDs.
	GuestIDPrefix = "guest_"

	// GuestIDRawLength is the fixed length of the Base62 part of the GuestID.
	GuestIDRawLength = 6
)

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// ConnectionID generates a standard UUID v4 string to serve as a stable identifier
// for a single transport-level connection.
func ConnectionID() string {
	return uuid.New().String()
}

// IsValidGuestID checks if the given string is a valid Guest ID.
// Validity criteria include: the "guest_" prefix followed by exactly
// GuestIDRawLength Base62 characters.
func IsValidGuestID(id string) bool {
	if !strings.HasPrefix(id, GuestIDPrefix) {
		return false
	}

	rawID := id[len(GuestIDPrefix):]

	if len(rawID) != GuestIDRawLength {
		return false
	}

	for _, char := range rawID {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}

// UserNickname generates a random nickname with a "User_" prefix and 6 random Base62 characters.
// It is used as a fallback when an arriving connection does not supply a display name.
func UserNickname() (string, error) {
	const nicknameRandomLength = 6
	result := make([]byte, nicknameRandomLength)

	for i := 0; i < nicknameRandomLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for nickname: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return "User_" + string(result), nil
}
