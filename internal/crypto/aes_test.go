package crypto

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	key := DeriveKey("secret", "salt")
	iv, err := RandomIV()
	if err != nil {
		t.Fatal(err)
	}

	for _, plaintext := range [][]byte{
		[]byte("short"),
		[]byte("exactly sixteen!"), // one full block, forces a padding block
		[]byte(""),
		bytes.Repeat([]byte("x"), 1000),
	} {
		sealed, err := EncryptToBase64(plaintext, key, iv)
		if err != nil {
			t.Fatal(err)
		}
		got, err := DecryptFromBase64(sealed, key, iv)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("round trip changed %d-byte input", len(plaintext))
		}
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	t.Parallel()

	iv, err := RandomIV()
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := EncryptToBase64([]byte("token"), DeriveKey("a", "salt"), iv)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecryptFromBase64(sealed, DeriveKey("b", "salt"), iv)
	if err == nil && bytes.Equal(got, []byte("token")) {
		t.Error("wrong key recovered the plaintext")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	t.Parallel()

	key := DeriveKey("secret", "salt")
	iv, err := RandomIV()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecryptFromBase64("not base64 at all!", key, iv); err == nil {
		t.Error("invalid base64 accepted")
	}
	if _, err := DecryptFromBase64("c2hvcnQ=", key, iv); err == nil {
		t.Error("unaligned ciphertext accepted")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := DeriveKey("secret", "salt")
	b := DeriveKey("secret", "salt")
	c := DeriveKey("secret", "other-salt")
	if !bytes.Equal(a, b) {
		t.Error("same inputs produced different keys")
	}
	if bytes.Equal(a, c) {
		t.Error("different salts produced the same key")
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32", len(a))
	}
}
