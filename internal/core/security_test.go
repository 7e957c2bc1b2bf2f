// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected encoding %q", hash)
	}

	ok, err := VerifySecret("1234", hash)
	if err != nil || !ok {
		t.Fatalf("verify correct secret: ok=%v err=%v", ok, err)
	}

	ok, err = VerifySecret("4321", hash)
	if err != nil || ok {
		t.Fatalf("verify wrong secret: ok=%v err=%v", ok, err)
	}
}

func TestHashSecretSaltsEachCall(t *testing.T) {
	a, _ := HashSecret("password")
	b, _ := HashSecret("password")
	if a == b {
		t.Fatalf("two hashes of the same secret must differ")
	}
}

func TestVerifySecretTimingSafeMissingHash(t *testing.T) {
	ok, newHash, err := VerifySecretTimingSafe("anything", nil)
	if ok || newHash != "" || err != nil {
		t.Fatalf("nil hash: ok=%v newHash=%q err=%v", ok, newHash, err)
	}

	empty := ""
	if ok, _, _ := VerifySecretTimingSafe("anything", &empty); ok {
		t.Fatalf("empty hash must never verify")
	}
}

func TestNeedsRehash(t *testing.T) {
	weak := "$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$"
	hash, err := HashSecret("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if needsRehash(hash) {
		t.Fatalf("fresh hash should not need a rehash")
	}
	if !needsRehash(weak) {
		t.Fatalf("weak params should need a rehash")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatalf("token hash must be deterministic")
	}
	if len(HashToken("abc")) != 64 {
		t.Fatalf("expected hex sha256")
	}
}

func TestRandomChoice(t *testing.T) {
	if RandomChoice(nil) != "" {
		t.Fatalf("empty options should yield empty string")
	}
	if RandomChoice([]string{"only"}) != "only" {
		t.Fatalf("single option should be returned")
	}
}
