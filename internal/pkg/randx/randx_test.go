package randx

import (
	"strings"
	"testing"
)

// TestMessageIDUnique verifies message ids are well-formed UUIDs and unique.
func TestMessageIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := MessageID()
		if len(id) != 36 {
			t.Fatalf("MessageID length = %d, want 36", len(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("MessageID returned duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}

// TestIsValidGuestID verifies accepted and rejected guest id shapes.
func TestIsValidGuestID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"guest_Ab3xYz", true},
		{"guest_000000", true},
		{"guest_Ab3xY", false},   // too short
		{"guest_Ab3xYz7", false}, // too long
		{"guest_Ab3x!z", false},  // invalid character
		{"Ab3xYz", false},        // missing prefix
		{"user_Ab3xYz", false},   // wrong prefix
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidGuestID(tc.id); got != tc.valid {
			t.Errorf("IsValidGuestID(%q) = %v, want %v", tc.id, got, tc.valid)
		}
	}
}

// TestUserNickname verifies the fallback nickname shape.
func TestUserNickname(t *testing.T) {
	nickname, err := UserNickname()
	if err != nil {
		t.Fatalf("UserNickname failed: %v", err)
	}

	if !strings.HasPrefix(nickname, "User_") {
		t.Errorf("nickname %q missing User_ prefix", nickname)
	}
	if len(nickname) != len("User_")+6 {
		t.Errorf("nickname length = %d, want %d", len(nickname), len("User_")+6)
	}
	for _, char := range nickname[len("User_"):] {
		if !strings.ContainsRune(Base62Chars, char) {
			t.Errorf("nickname %q contains non-Base62 character %q", nickname, char)
		}
	}
}
