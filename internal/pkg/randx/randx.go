/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to mint user ids, session tokens, and message ids (all UUID v4),
plus random fallback display names for anonymous callers.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))
)

// UserID generates a collision-resistant public user identifier (UUID v4).
func UserID() string {
	return uuid.New().String()
}

// SessionToken generates the secret capability token handed out alongside a user id.
// The token is opaque to clients and is only ever compared against the live
// registry record; it must never appear in logs or broadcast notifications.
func SessionToken() string {
	return uuid.New().String()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// DisplayName generates a random display name with a "User_" prefix and 6 random
// Base62 characters, used when an authenticating caller does not supply a name.
func DisplayName() (string, error) {
	const nameRandomLength = 6
	result := make([]byte, nameRandomLength)

	for i := 0; i < nameRandomLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for display name: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return "User_" + string(result), nil
}
