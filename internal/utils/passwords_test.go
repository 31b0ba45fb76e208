package utils

import "testing"

func TestHashAndComparePasswords(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plain password")
	}

	if err := ComparePasswords(hash, "s3cret-password"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := ComparePasswords(hash, "wrong-password"); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Error("expected distinct hashes for the same input")
	}
}
