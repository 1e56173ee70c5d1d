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

package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryRepo struct {
	sessions map[string]*Session
	deleted  []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[string]*Session)}
}

func (m *memoryRepo) Create(_ context.Context, s *Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryRepo) Get(_ context.Context, sessionID string) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return s, nil
}

func (m *memoryRepo) Touch(_ context.Context, sessionID string, lastSeenAt time.Time) error {
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.LastSeenAt = lastSeenAt
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	m.deleted = append(m.deleted, sessionID)
	return nil
}

func (m *memoryRepo) DeleteByUserID(_ context.Context, userID string) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
			m.deleted = append(m.deleted, id)
		}
	}
	return nil
}

func (m *memoryRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func TestSession_Service_CreateAndGet(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	sess, err := service.Create(ctx, "tenant-1", "user-1", "203.0.113.9", "curl/8")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected a generated session ID")
	}
	if !sess.ExpiresAt.After(sess.CreatedAt) {
		t.Error("expected ExpiresAt after CreatedAt")
	}

	got, err := service.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != "user-1" || got.TenantID != "tenant-1" {
		t.Errorf("unexpected session identity: %+v", got)
	}
}

// TestPurpose: Validates that an expired session is treated as invalid and is
// removed from the store, not merely reported.
// Scope: Unit Test
// Security: A stale cookie must never resolve to an authenticated identity.
// Expected: Get returns ErrSessionExpired and the row is deleted.
func TestSession_Service_Get_Expired(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	repo.sessions["stale"] = &Session{
		ID:         "stale",
		UserID:     "user-1",
		ExpiresAt:  time.Now().Add(-time.Minute),
		LastSeenAt: time.Now(),
	}

	_, err := service.Get(ctx, "stale")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := repo.sessions["stale"]; ok {
		t.Error("expected expired session to be deleted")
	}
}

// TestPurpose: Validates the idle timeout. A session inside its lifetime but
// untouched past the idle window is expired on access.
// Scope: Unit Test
// Expected: Get returns ErrSessionExpired for an idle session.
func TestSession_Service_Get_Idle(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, 24*time.Hour, 30*time.Minute)
	ctx := context.Background()

	repo.sessions["idle"] = &Session{
		ID:         "idle",
		UserID:     "user-1",
		ExpiresAt:  time.Now().Add(12 * time.Hour),
		LastSeenAt: time.Now().Add(-time.Hour),
	}

	_, err := service.Get(ctx, "idle")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSession_Service_Get_NotFound(t *testing.T) {
	service := NewService(newMemoryRepo(), time.Hour, 30*time.Minute)

	_, err := service.Get(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSession_Service_Refresh(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	sess, err := service.Create(ctx, "tenant-1", "user-1", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	before := repo.sessions[sess.ID].LastSeenAt
	time.Sleep(5 * time.Millisecond)
	if err := service.Refresh(ctx, sess.ID); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !repo.sessions[sess.ID].LastSeenAt.After(before) {
		t.Error("expected LastSeenAt to advance")
	}
}

func TestSession_Service_CleanupExpired(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	repo.sessions["live"] = &Session{ID: "live", ExpiresAt: time.Now().Add(time.Hour), LastSeenAt: time.Now()}
	repo.sessions["dead-1"] = &Session{ID: "dead-1", ExpiresAt: time.Now().Add(-time.Hour)}
	repo.sessions["dead-2"] = &Session{ID: "dead-2", ExpiresAt: time.Now().Add(-time.Minute)}

	removed, err := service.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 sessions removed, got %d", removed)
	}
	if _, ok := repo.sessions["live"]; !ok {
		t.Error("live session should survive cleanup")
	}
}

func TestSession_Service_DeleteForUser(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	repo.sessions["a"] = &Session{ID: "a", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	repo.sessions["b"] = &Session{ID: "b", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	repo.sessions["c"] = &Session{ID: "c", UserID: "user-2", ExpiresAt: time.Now().Add(time.Hour)}

	if err := service.DeleteForUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteForUser failed: %v", err)
	}
	if len(repo.sessions) != 1 {
		t.Errorf("expected only user-2's session to remain, have %d", len(repo.sessions))
	}
}
