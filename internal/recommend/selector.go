package recommend

import "sort"

// Ceiling es el tope de gasto mensual en centavos. Unbounded ignora Cents.
type Ceiling struct {
	Cents     int64
	Unbounded bool
}

// NoCeiling devuelve un tope sin limite (hogar sin presupuesto declarado).
func NoCeiling() Ceiling {
	return Ceiling{Unbounded: true}
}

// CeilingFromBudget convierte un presupuesto mensual en unidades de moneda a centavos.
// Un presupuesto ausente o no positivo no limita la seleccion.
func CeilingFromBudget(budgetMonthly *int) Ceiling {
	if budgetMonthly == nil || *budgetMonthly <= 0 {
		return NoCeiling()
	}
	return Ceiling{Cents: int64(*budgetMonthly) * int64(centsPerCurrency)}
}

func (c Ceiling) allows(cost int64) bool {
	return c.Unbounded || cost <= c.Cents
}

// SortCandidates ordena por puntaje descendente. Los empates se resuelven por ID de actividad
// ascendente, asi el resultado no depende del orden en que el almacenamiento devolvio las filas.
func SortCandidates(candidates []Scored) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Total != candidates[j].Total {
			return candidates[i].Total > candidates[j].Total
		}
		return candidates[i].Activity.ID < candidates[j].Activity.ID
	})
}

// Select recorre los candidatos (ya ordenados) una sola vez y acepta cada uno cuyo costo
// todavia entra en el tope, hasta juntar maxCount.
//
// Es una heuristica golosa, no un knapsack exacto: si el tercer candidato no entra en el
// presupuesto se salta, pero nunca se reemplaza un candidato caro ya aceptado por otros mas
// baratos de menor puntaje aunque eso permitiera elegir mas actividades.
func Select(candidates []Scored, ceiling Ceiling, maxCount int) []Scored {
	if maxCount <= 0 || len(candidates) == 0 {
		return nil
	}
	selected := make([]Scored, 0, maxCount)
	var running int64
	for _, c := range candidates {
		cost := c.Cost
		if cost < 0 {
			cost = 0
		}
		if !ceiling.allows(running + cost) {
			continue
		}
		selected = append(selected, c)
		running += cost
		if len(selected) >= maxCount {
			break
		}
	}
	return selected
}
