package authz

import "fmt"

// RoleSeed is a builtin role definition.
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds returns the fixed role matrix. There are exactly two
// roles: workers operate on orders, executives additionally delete them.
// Ownership and transition rules are enforced in the service layer; these
// policies gate routes only.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "worker",
			Policies: []Policy{
				{Object: "/orders", Action: "GET"},
				{Object: "/orders", Action: "POST"},
				{Object: "/orders/next-order-number", Action: "GET"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/orders/:id", Action: "PUT"},
				{Object: "/orders/:id/status", Action: "PUT"},
				{Object: "/orders/:id/history", Action: "GET"},
				{Object: "/auth/profile", Action: "GET"},
				{Object: "/auth/password", Action: "PUT"},
			},
		},
		{
			Role:     "executive",
			Inherits: []string{"worker"},
			Policies: []Policy{
				{Object: "/orders/:id", Action: "DELETE"},
				{Object: "/workers", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles installs the builtin roles and their policies.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
