package capabilities

import (
	"context"

	"dairy-herd-manager/internal/ports/auth"
)

type Capability string

const (
	// Permite fijar un estado productivo fuera del conjunto derivado por edad/sexo.
	OverrideProductionStatus Capability = "animals:override_status"
	// Permite dar de baja (release) animales.
	ReleaseAnimals Capability = "animals:release"
	// Permite modificar la configuración de la granja.
	ManageSettings Capability = "farm:manage_settings"
)

type CapabilitiesResolver interface {
	Has(ctx context.Context, claims auth.Claims, capability Capability) (bool, error)
}
