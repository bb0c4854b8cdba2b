package argon2id

import (
	"strings"
	"testing"
)

func TestEncodeHashAndVerify(t *testing.T) {
	encoded, err := EncodeHash("correct horse battery staple", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("EncodeHash() = %q, want $argon2id$ prefix", encoded)
	}

	match, err := Verify("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !match {
		t.Error("Verify() = false for correct password")
	}

	match, err = Verify("wrong password", encoded)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if match {
		t.Error("Verify() = true for wrong password")
	}
}

func TestEncodeHash_UniqueSalts(t *testing.T) {
	first, err := EncodeHash("password", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	second, err := EncodeHash("password", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestDecodeHash_RoundTrip(t *testing.T) {
	encoded, err := EncodeHash("secret", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}

	params, salt, hash, err := DecodeHash(encoded)
	if err != nil {
		t.Fatalf("DecodeHash() error = %v", err)
	}
	if *params != DefaultParams {
		t.Errorf("params = %+v, want %+v", *params, DefaultParams)
	}
	if len(salt) == 0 || len(hash) == 0 {
		t.Error("salt and hash should be non-empty")
	}

	reencoded := EncodeHashWithSalt("secret", *params, salt)
	if reencoded != encoded {
		t.Errorf("EncodeHashWithSalt() = %q, want %q", reencoded, encoded)
	}
}

func TestDecodeHash_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not a hash", input: "plaintext"},
		{name: "wrong variant", input: "$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := DecodeHash(tt.input); err == nil {
				t.Error("DecodeHash() error = nil, want parse error")
			}
		})
	}
}
