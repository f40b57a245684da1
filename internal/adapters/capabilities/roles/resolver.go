package roles

import (
	"context"
	"strings"

	"dairy-herd-manager/internal/ports/auth"
	"dairy-herd-manager/internal/ports/capabilities"
)

// Resolver decide capabilities a partir del rol que viene en los claims.
// Roles en minúscula; el mapa se arma una vez en el router.
type Resolver struct {
	grants map[capabilities.Capability]map[string]struct{}
}

// NewResolver: overrideRoles controla quién puede forzar estado productivo.
// Liberar animales y editar configuración quedan para owner/manager.
func NewResolver(overrideRoles []string) *Resolver {
	return &Resolver{
		grants: map[capabilities.Capability]map[string]struct{}{
			capabilities.OverrideProductionStatus: toSet(overrideRoles),
			capabilities.ReleaseAnimals:           toSet([]string{"owner", "manager"}),
			capabilities.ManageSettings:           toSet([]string{"owner", "manager"}),
		},
	}
}

func (r *Resolver) Has(_ context.Context, claims auth.Claims, capability capabilities.Capability) (bool, error) {
	if r == nil {
		return false, nil
	}
	roles, ok := r.grants[capability]
	if !ok {
		return false, nil
	}
	_, ok = roles[strings.ToLower(strings.TrimSpace(claims.Role))]
	return ok, nil
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}
