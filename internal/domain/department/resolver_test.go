package department

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
)

// ──────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────

func TestResolve_DepartamentoConocido(t *testing.T) {
	r := NewResolver(nil)

	reviewer, err := r.Resolve("dairy")
	require.NoError(t, err)
	assert.Equal(t, "mhermani", reviewer, "dairy debe asignarse a su revisor")
}

func TestResolve_NormalizaMayusculasYEspacios(t *testing.T) {
	r := NewResolver(nil)

	reviewer, err := r.Resolve("  Meat ")
	require.NoError(t, err)
	assert.Equal(t, "ktaylor", reviewer)
}

func TestResolve_DepartamentoDesconocido(t *testing.T) {
	r := NewResolver(nil)

	_, err := r.Resolve("seafood")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "debe ser error de validación")
	// El mensaje enumera el conjunto válido para que el llamador se corrija.
	assert.Contains(t, err.Error(), "seafood")
	for _, dept := range r.Departments() {
		assert.Contains(t, err.Error(), dept)
	}
}

func TestResolve_MapeoInyectado(t *testing.T) {
	r := NewResolver(Assignments{"Ferretería": "jperez"})

	reviewer, err := r.Resolve("ferretería")
	require.NoError(t, err)
	assert.Equal(t, "jperez", reviewer)

	_, err = r.Resolve("dairy")
	assert.Error(t, err, "el mapeo inyectado reemplaza al por defecto, no lo extiende")
}

// ──────────────────────────────────────────────
// Departments
// ──────────────────────────────────────────────

func TestDepartments_Ordenados(t *testing.T) {
	r := NewResolver(Assignments{"zeta": "a", "alfa": "b", "media": "c"})

	assert.Equal(t, []string{"alfa", "media", "zeta"}, r.Departments())
}

func TestNewResolver_IgnoraEntradasVacias(t *testing.T) {
	r := NewResolver(Assignments{"": "alguien", "dairy": "", "meat": "ktaylor"})

	assert.Equal(t, []string{"meat"}, r.Departments())
}
