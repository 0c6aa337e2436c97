package impl

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"encrypto-chat/internal/domain"
)

func TestPasswordHashAndVerify(t *testing.T) {
	p := NewPasswordService(testArgon2)
	hash, salt, params, algo, ver, err := p.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	cred := &domain.PasswordCredential{Algo: algo, Hash: hash, Salt: salt, ParamsJSON: params, PasswordVer: ver}

	if rehash, ok := p.Verify("s3cret", cred); !ok || rehash {
		t.Fatalf("Verify = rehash %v ok %v", rehash, ok)
	}
	if _, ok := p.Verify("wrong", cred); ok {
		t.Fatalf("wrong password accepted")
	}

	stronger := NewPasswordService(Argon2Params{Time: 2, Memory: 64, Threads: 1, KeyLen: 32, SaltLen: 16})
	if rehash, ok := stronger.Verify("s3cret", cred); !ok || !rehash {
		t.Fatalf("policy change should request rehash: rehash %v ok %v", rehash, ok)
	}

	if _, _, _, _, _, err := p.Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestPasswordVerifyLegacyAndUnknown(t *testing.T) {
	p := NewPasswordService(testArgon2)
	legacy, err := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cred := &domain.PasswordCredential{Algo: algoBcrypt, Hash: legacy}
	if rehash, ok := p.Verify("old", cred); !ok || !rehash {
		t.Fatalf("legacy verify = rehash %v ok %v", rehash, ok)
	}
	if rehash, ok := p.Verify("new", cred); ok || rehash {
		t.Fatalf("legacy mismatch = rehash %v ok %v", rehash, ok)
	}
	if _, ok := p.Verify("old", &domain.PasswordCredential{Algo: "md5", Hash: []byte("x")}); ok {
		t.Fatalf("unknown algorithm accepted")
	}
}
