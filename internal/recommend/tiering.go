package recommend

import "compass/internal/domain"

// TierFor asigna el tier segun la posicion dentro de la seleccion.
// Como Select nunca devuelve mas de maxCount elementos, "stretch" hoy no se alcanza
// y "budget_saver" no tiene regla que lo asigne.
func TierFor(position, maxCount int) domain.Tier {
	if position < maxCount {
		return domain.TierPrimary
	}
	return domain.TierStretch
}
