package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/raihan/pesonabangka/internal/model"
)

func TestHash_ProducesVerifiableCredential(t *testing.T) {
	// テストの高速化のため最小コストを使用
	v := NewVerifier(bcrypt.MinCost)

	credential, err := v.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if credential == "correct horse battery staple" {
		t.Fatal("credential must not equal the plaintext")
	}
	if !strings.HasPrefix(credential, "$2a$") {
		t.Errorf("credential = %q, want bcrypt format", credential)
	}
	if !v.Verify("correct horse battery staple", credential) {
		t.Error("Verify() = false for matching plaintext")
	}
}

func TestHash_SamePlaintextProducesDifferentCredentials(t *testing.T) {
	v := NewVerifier(bcrypt.MinCost)

	first, err := v.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := v.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// ソルトにより毎回異なるハッシュになる
	if first == second {
		t.Error("expected different credentials for the same plaintext")
	}
}

func TestVerify_WrongPassword_ReturnsFalse(t *testing.T) {
	v := NewVerifier(bcrypt.MinCost)

	credential, err := v.Hash("right-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if v.Verify("wrong-password", credential) {
		t.Error("Verify() = true for non-matching plaintext")
	}
}

func TestVerify_FederatedSentinel_NeverMatches(t *testing.T) {
	v := NewVerifier(bcrypt.MinCost)

	// 連携専用アカウントのセンチネルはどの平文とも一致しない
	if v.Verify(model.FederatedCredential, model.FederatedCredential) {
		t.Error("sentinel must not match itself")
	}
	if v.Verify("", model.FederatedCredential) {
		t.Error("sentinel must not match the empty string")
	}
	if v.Verify("google", model.FederatedCredential) {
		t.Error("sentinel must not match its own literal value")
	}
}

func TestVerify_MalformedCredential_ReturnsFalse(t *testing.T) {
	v := NewVerifier(bcrypt.MinCost)

	if v.Verify("anything", "not-a-bcrypt-hash") {
		t.Error("Verify() = true for malformed credential")
	}
}

func TestNewVerifier_OutOfRangeCost_FallsBackToDefault(t *testing.T) {
	v := NewVerifier(99)
	if v.cost != DefaultCost {
		t.Errorf("cost = %d, want %d", v.cost, DefaultCost)
	}

	v = NewVerifier(-1)
	if v.cost != DefaultCost {
		t.Errorf("cost = %d, want %d", v.cost, DefaultCost)
	}
}
