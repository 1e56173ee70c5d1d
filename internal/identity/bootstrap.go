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
	"fmt"
	"os"

	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/audit"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/rbac"
	"github.com/Brezzyslide/MORTIAN-NGN-sub002/internal/tenant"
)

const (
	EnvBootstrapEmail    = "MORTIAN_BOOTSTRAP_EMAIL"
	EnvBootstrapPassword = "MORTIAN_BOOTSTRAP_PASSWORD"
)

// BootstrapService provisions the initial console manager account in
// the seeded bootstrap tenant on first run.
type BootstrapService struct {
	identityService *Service
	tenantService   *tenant.Service
	auditLogger     audit.Logger
}

// NewBootstrapService creates a new bootstrap service
func NewBootstrapService(
	identityService *Service,
	tenantService *tenant.Service,
	auditLogger audit.Logger,
) *BootstrapService {
	return &BootstrapService{
		identityService: identityService,
		tenantService:   tenantService,
		auditLogger:     auditLogger,
	}
}

// Bootstrap checks for bootstrap configuration and executes it if
// necessary. A missing MORTIAN_BOOTSTRAP_EMAIL is not an error; an
// existing console manager in the bootstrap tenant makes it a no-op.
func (s *BootstrapService) Bootstrap(ctx context.Context) error {
	email := os.Getenv(EnvBootstrapEmail)
	password := os.Getenv(EnvBootstrapPassword)

	if email == "" {
		return nil
	}

	memberships, err := s.tenantService.ListMembers(ctx, rbac.BootstrapTenantID)
	if err != nil {
		return fmt.Errorf("failed to list bootstrap tenant members: %w", err)
	}
	for _, m := range memberships {
		if rbac.Normalize(m.Role) == rbac.RoleConsoleManager {
			// Already bootstrapped, skip silently.
			return nil
		}
	}

	user, err := s.identityService.repo.GetByEmail(ctx, rbac.BootstrapTenantID, email)
	if err != nil {
		user, err = s.identityService.ProvisionUser(ctx, rbac.BootstrapTenantID, email, Profile{})
		if err != nil {
			return fmt.Errorf("failed to provision bootstrap user %s: %w", email, err)
		}
		if password != "" {
			if err := s.identityService.AddPassword(ctx, user.ID, password); err != nil {
				return fmt.Errorf("failed to set bootstrap password: %w", err)
			}
		}
	}

	if err := s.tenantService.AssignRole(ctx, rbac.BootstrapTenantID, user.ID, string(rbac.RoleConsoleManager), "system:bootstrap"); err != nil {
		return fmt.Errorf("failed to grant console manager role during bootstrap: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleAssigned,
		TenantID: rbac.BootstrapTenantID,
		ActorID:  user.ID,
		Resource: "bootstrap",
		Metadata: map[string]any{
			"email": email,
			"role":  string(rbac.RoleConsoleManager),
		},
	})

	fmt.Printf("Successfully bootstrapped initial console manager: %s\n", email)
	return nil
}
