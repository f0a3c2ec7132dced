package csrf

import (
	"bytes"
	"testing"
)

func TestKeyring_Create(t *testing.T) {
	kr := NewKeyring()

	id, secret, err := kr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Error("Create() returned an empty identifier")
	}
	if len(secret) != SecretLength {
		t.Errorf("secret length = %d, want %d", len(secret), SecretLength)
	}

	stored, ok := kr.Get(id)
	if !ok {
		t.Fatal("created secret not retrievable")
	}
	if !bytes.Equal(stored, secret) {
		t.Error("stored secret differs from returned secret")
	}

	// two sessions never share a secret
	id2, secret2, err := kr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == id2 {
		t.Error("two created sessions share an identifier")
	}
	if bytes.Equal(secret, secret2) {
		t.Error("two created sessions share a secret")
	}
}

func TestKeyring_Register(t *testing.T) {
	kr := NewKeyring()
	secret := bytes.Repeat([]byte{0x42}, MinSecretLength)

	if err := kr.Register("session-1", secret); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := kr.Get("session-1")
	if !ok || !bytes.Equal(got, secret) {
		t.Error("registered secret not retrievable")
	}

	// the keyring keeps its own copy
	secret[0] = 0xff
	got, _ = kr.Get("session-1")
	if got[0] == 0xff {
		t.Error("keyring must copy registered secrets")
	}

	if err := kr.Register("", secret); err == nil {
		t.Error("Register() with empty name should fail")
	}
	if err := kr.Register("short", make([]byte, MinSecretLength-1)); err == nil {
		t.Error("Register() with short secret should fail")
	}
}

func TestKeyring_Remove(t *testing.T) {
	kr := NewKeyring()

	id, _, err := kr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if kr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", kr.Len())
	}

	kr.Remove(id)
	if _, ok := kr.Get(id); ok {
		t.Error("removed secret still retrievable")
	}
	if kr.Len() != 0 {
		t.Errorf("Len() = %d after remove, want 0", kr.Len())
	}

	// removing an unknown name is a no-op
	kr.Remove("unknown")
}
