// Package department resuelve qué revisor responde por cada departamento.
// El mapeo se inyecta por configuración en la construcción; no hay estado
// global ambiente.
package department

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
)

// Assignments mapa departamento → username del revisor responsable.
type Assignments map[string]string

// Default devuelve el mapeo por defecto (departamentos de la tienda).
// Se usa cuando la configuración no define asignaciones.
func Default() Assignments {
	return Assignments{
		"produce":   "mhermani",
		"dairy":     "mhermani",
		"bakery":    "mhermani",
		"meat":      "ktaylor",
		"grocery":   "ktaylor",
		"frozen":    "ktaylor",
		"beverages": "ktaylor",
	}
}

// Resolver valida departamentos y devuelve su revisor asignado.
type Resolver struct {
	assignments Assignments
	valid       []string // claves ordenadas, para mensajes de error estables
}

// NewResolver construye el resolver con el mapeo inyectado.
// Si assignments es nil o vacío se usa Default().
func NewResolver(assignments Assignments) *Resolver {
	if len(assignments) == 0 {
		assignments = Default()
	}
	normalized := make(Assignments, len(assignments))
	valid := make([]string, 0, len(assignments))
	for dept, reviewer := range assignments {
		key := normalize(dept)
		if key == "" || reviewer == "" {
			continue
		}
		normalized[key] = reviewer
		valid = append(valid, key)
	}
	sort.Strings(valid)
	return &Resolver{assignments: normalized, valid: valid}
}

// Resolve devuelve el revisor responsable del departamento. Si el departamento
// no es reconocido, falla con un error de validación que enumera el conjunto
// válido para que el llamador pueda corregirse.
func (r *Resolver) Resolve(dept string) (string, error) {
	reviewer, ok := r.assignments[normalize(dept)]
	if !ok {
		return "", fmt.Errorf("%w: departamento %q no reconocido; válidos: %s",
			domain.ErrInvalidInput, dept, strings.Join(r.valid, ", "))
	}
	return reviewer, nil
}

// Departments devuelve los departamentos reconocidos, ordenados.
func (r *Resolver) Departments() []string {
	out := make([]string, len(r.valid))
	copy(out, r.valid)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
