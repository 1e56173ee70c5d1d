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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
)

type recordingAudit struct {
	events []audit.Event
}

func (r *recordingAudit) Log(_ context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

func (r *recordingAudit) hasEvent(eventType string) bool {
	for _, e := range r.events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

type memoryUserRepo struct {
	users       map[string]*User
	credentials map[string]*Credentials
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:       make(map[string]*User),
		credentials: make(map[string]*Credentials),
	}
}

func (m *memoryUserRepo) Create(_ context.Context, user *User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserRepo) AddCredentials(_ context.Context, c *Credentials) error {
	m.credentials[c.UserID] = c
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, tenantID, email string) (*User, error) {
	for _, u := range m.users {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *memoryUserRepo) Update(_ context.Context, user *User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserRepo) UpdateLockout(_ context.Context, userID string, failedAttempts int, lockedUntil *time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return errors.New("no rows")
	}
	u.FailedLoginAttempts = failedAttempts
	u.LockedUntil = lockedUntil
	return nil
}

func (m *memoryUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *memoryUserRepo) GetCredentials(_ context.Context, userID string) (*Credentials, error) {
	c, ok := m.credentials[userID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return c, nil
}

func (m *memoryUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	c, ok := m.credentials[userID]
	if !ok {
		return errors.New("no rows")
	}
	c.PasswordHash = passwordHash
	return nil
}

func (m *memoryUserRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func testHasher() *PasswordHasher {
	// Low-cost parameters so the test suite stays fast.
	return NewPasswordHasher(8*1024, 1, 1, 16, 32)
}

func newTestService(repo *memoryUserRepo, trail *recordingAudit) *Service {
	return NewService(repo, testHasher(), trail, 5, 15*time.Minute)
}

func TestIdentity_Service_ProvisionUser(t *testing.T) {
	repo := newMemoryUserRepo()
	trail := &recordingAudit{}
	service := newTestService(repo, trail)
	ctx := context.Background()

	user, err := service.ProvisionUser(ctx, "tenant-1", "amaka@example.com", Profile{GivenName: "Amaka"})
	if err != nil {
		t.Fatalf("ProvisionUser failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected a generated user ID")
	}
	if user.TenantID != "tenant-1" {
		t.Errorf("expected tenant-1, got %s", user.TenantID)
	}
	if !trail.hasEvent(audit.TypeUserCreated) {
		t.Error("expected a user-created audit event")
	}

	// Same email in the same tenant conflicts.
	if _, err := service.ProvisionUser(ctx, "tenant-1", "amaka@example.com", Profile{}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}

	// Same email in a different tenant is fine.
	if _, err := service.ProvisionUser(ctx, "tenant-2", "amaka@example.com", Profile{}); err != nil {
		t.Errorf("expected cross-tenant provision to succeed, got %v", err)
	}
}

func TestIdentity_Service_ProvisionUser_InvalidEmail(t *testing.T) {
	service := newTestService(newMemoryUserRepo(), &recordingAudit{})

	for _, email := range []string{"", "no-at-sign", "@leading", "trailing@"} {
		if _, err := service.ProvisionUser(context.Background(), "tenant-1", email, Profile{}); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("email %q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

// TestPurpose: Validates the full authenticate round trip including the
// credential verification path.
// Scope: Unit Test
// Expected: A provisioned user with a password authenticates with the right
// password and is rejected with the wrong one.
// Test Case ID: IDN-01
func TestIdentity_Service_Authenticate(t *testing.T) {
	repo := newMemoryUserRepo()
	trail := &recordingAudit{}
	service := newTestService(repo, trail)
	ctx := context.Background()

	user, err := service.ProvisionUser(ctx, "tenant-1", "chidi@example.com", Profile{})
	if err != nil {
		t.Fatalf("ProvisionUser failed: %v", err)
	}
	if err := service.AddPassword(ctx, user.ID, "correct horse battery"); err != nil {
		t.Fatalf("AddPassword failed: %v", err)
	}

	got, err := service.Authenticate(ctx, "tenant-1", "chidi@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
	if !trail.hasEvent(audit.TypeLoginSuccess) {
		t.Error("expected a login-success audit event")
	}

	if _, err := service.Authenticate(ctx, "tenant-1", "chidi@example.com", "wrong password!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if !trail.hasEvent(audit.TypeLoginFailed) {
		t.Error("expected a login-failed audit event")
	}
}

// TestPurpose: Validates account lockout after repeated failures and that a
// locked account rejects even the correct password.
// Scope: Unit Test
// Security: Lockout throttles online password guessing.
// Expected: The fifth failure locks the account; subsequent attempts return
// ErrAccountLocked until the lock expires; success resets the counter.
// Test Case ID: IDN-02
func TestIdentity_Service_Authenticate_Lockout(t *testing.T) {
	repo := newMemoryUserRepo()
	trail := &recordingAudit{}
	service := newTestService(repo, trail)
	ctx := context.Background()

	user, err := service.ProvisionUser(ctx, "tenant-1", "ngozi@example.com", Profile{})
	if err != nil {
		t.Fatalf("ProvisionUser failed: %v", err)
	}
	if err := service.AddPassword(ctx, user.ID, "a very long password"); err != nil {
		t.Fatalf("AddPassword failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := service.Authenticate(ctx, "tenant-1", "ngozi@example.com", "bad guess"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	if !trail.hasEvent(audit.TypeUserLocked) {
		t.Error("expected a user-locked audit event")
	}

	if _, err := service.Authenticate(ctx, "tenant-1", "ngozi@example.com", "a very long password"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked for correct password while locked, got %v", err)
	}

	// Expire the lock, then a good login resets the counter.
	past := time.Now().Add(-time.Minute)
	repo.users[user.ID].LockedUntil = &past

	if _, err := service.Authenticate(ctx, "tenant-1", "ngozi@example.com", "a very long password"); err != nil {
		t.Fatalf("expected login after lock expiry, got %v", err)
	}
	if repo.users[user.ID].FailedLoginAttempts != 0 {
		t.Errorf("expected failed attempts reset, got %d", repo.users[user.ID].FailedLoginAttempts)
	}
	if repo.users[user.ID].LockedUntil != nil {
		t.Error("expected lock cleared after successful login")
	}
}

func TestIdentity_Service_AddPassword_Weak(t *testing.T) {
	service := newTestService(newMemoryUserRepo(), &recordingAudit{})

	if err := service.AddPassword(context.Background(), "user-1", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestIdentity_Service_ChangePassword(t *testing.T) {
	repo := newMemoryUserRepo()
	service := newTestService(repo, &recordingAudit{})
	ctx := context.Background()

	user, err := service.ProvisionUser(ctx, "tenant-1", "tunde@example.com", Profile{})
	if err != nil {
		t.Fatalf("ProvisionUser failed: %v", err)
	}
	if err := service.AddPassword(ctx, user.ID, "original password!"); err != nil {
		t.Fatalf("AddPassword failed: %v", err)
	}

	if err := service.ChangePassword(ctx, user.ID, "wrong old password", "replacement password!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong old password, got %v", err)
	}

	if err := service.ChangePassword(ctx, user.ID, "original password!", "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword for short replacement, got %v", err)
	}

	if err := service.ChangePassword(ctx, user.ID, "original password!", "replacement password!"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := service.Authenticate(ctx, "tenant-1", "tunde@example.com", "replacement password!"); err != nil {
		t.Errorf("expected login with the new password, got %v", err)
	}
}
