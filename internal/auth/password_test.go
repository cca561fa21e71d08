package auth

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !ComparePassword(hash, "correct horse battery staple") {
		t.Fatal("expected matching password to compare true")
	}
	if ComparePassword(hash, "wrong password") {
		t.Fatal("expected mismatched password to compare false")
	}
}

func TestCompareMalformedHash(t *testing.T) {
	if ComparePassword("not-a-bcrypt-hash", "anything") {
		t.Fatal("expected malformed hash to compare false, not panic or error out")
	}
}
