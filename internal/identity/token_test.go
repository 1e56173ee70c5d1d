// Copyright 2026 The Mortian Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret-do-not-reuse"

func TestIdentity_Token_IssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	signed, err := issuer.Issue("user-1", "tenant-1", "site_manager")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.TenantID != "tenant-1" {
		t.Errorf("expected tenant-1, got %s", claims.TenantID)
	}
	if claims.Role != "site_manager" {
		t.Errorf("expected role site_manager, got %s", claims.Role)
	}
}

func TestIdentity_Token_Expired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, -time.Minute)

	signed, err := issuer.Issue("user-1", "tenant-1", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Parse(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestIdentity_Token_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	other := NewTokenIssuer("a completely different secret", time.Hour)

	signed, err := issuer.Issue("user-1", "tenant-1", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Parse(signed); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

// TestPurpose: Validates algorithm pinning. A token signed with "none" must
// be rejected even though its claims are otherwise well formed.
// Scope: Unit Test
// Security: Prevents algorithm-confusion downgrade of bearer tokens.
// Expected: Parse fails for any method other than HS256.
func TestIdentity_Token_AlgorithmPinned(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: "tenant-1",
		Role:     "admin",
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none failed: %v", err)
	}

	if _, err := issuer.Parse(tokenStr); err == nil {
		t.Fatal("expected unsigned token to be rejected")
	}
}

// A token without an exp claim is rejected outright.
func TestIdentity_Token_ExpirationRequired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		TenantID:         "tenant-1",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := issuer.Parse(signed); err == nil {
		t.Fatal("expected token without exp to be rejected")
	}
}
