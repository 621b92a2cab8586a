package auth

import "testing"

func TestGenerateToken_Length(t *testing.T) {
	for _, length := range []int{16, 32, 64, 100} {
		token, err := GenerateToken(length)
		if err != nil {
			t.Fatalf("GenerateToken(%d) failed: %v", length, err)
		}
		if len(token) != length {
			t.Errorf("expected %d chars, got %d", length, len(token))
		}
	}
}

func TestGenerateToken_URLSafe(t *testing.T) {
	token, err := GenerateToken(TokenLength)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range token {
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
		if !ok {
			t.Fatalf("token contains non-base64url char %q", c)
		}
	}
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateToken(TokenLength)
		if err != nil {
			t.Fatal(err)
		}
		if seen[token] {
			t.Fatal("generated duplicate token")
		}
		seen[token] = true
	}
}
