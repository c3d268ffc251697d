package auth

import (
	"testing"
	"time"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	m, err := NewManager("secreto-de-prueba", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := m.Sign(7, "ana", "admin")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 || claims.Username != "ana" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a, _ := NewManager("secreto-a", time.Hour)
	b, _ := NewManager("secreto-b", time.Hour)
	token, err := a.Sign(1, "ana", "user")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Verify(token); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m, _ := NewManager("secreto", time.Millisecond)
	token, err := m.Sign(1, "ana", "user")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m, _ := NewManager("secreto", time.Hour)
	if _, err := m.Verify("no-es-un-jwt"); err == nil {
		t.Fatal("garbage token must not verify")
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Fatal("empty secret must be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPassword(hash, "admin123") {
		t.Fatal("correct password must verify")
	}
	if CheckPassword(hash, "otra") {
		t.Fatal("wrong password must not verify")
	}
}
