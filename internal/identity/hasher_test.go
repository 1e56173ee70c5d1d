package identity

import (
	"strings"
	"testing"
)

func TestIdentity_Hasher_RoundTrip(t *testing.T) {
	hasher := testHasher()

	encoded, err := hasher.Hash("a perfectly fine password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	ok, err := hasher.Verify("a perfectly fine password", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("expected matching password to verify")
	}

	ok, err = hasher.Verify("a different password", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("expected mismatched password to fail verification")
	}
}

func TestIdentity_Hasher_UniqueSalts(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("expected distinct hashes for the same password")
	}
}

// TestPurpose: Validates that hashes carry their own parameters, so stored
// credentials survive a hasher parameter upgrade.
// Scope: Unit Test
// Expected: A hash produced with old parameters verifies with a hasher
// configured with new ones.
func TestIdentity_Hasher_ParameterUpgrade(t *testing.T) {
	old := NewPasswordHasher(8*1024, 1, 1, 16, 32)
	upgraded := NewPasswordHasher(64*1024, 3, 4, 16, 32)

	encoded, err := old.Hash("survives upgrades")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	ok, err := upgraded.Verify("survives upgrades", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("expected old hash to verify under new parameters")
	}
}

func TestIdentity_Hasher_MalformedHash(t *testing.T) {
	hasher := testHasher()

	cases := []string{
		"",
		"not a hash at all",
		"$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=1$!!!$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := hasher.Verify("anything", encoded); err == nil {
			t.Errorf("expected error for malformed hash %q", encoded)
		}
	}
}
