package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Stage(t *testing.T) {
	cases := []struct {
		state State
		stage int
	}{
		{StateCaptured, 1},
		{StateCoding, 2},
		{StateDeptReview, 3},
		{StateApproved, 3}, // aprobar sin cambios de precio no avanza la etapa
		{StatePriceReview, 4},
		{StateComplete, 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.stage, tc.state.Stage(), "etapa de %s", tc.state)
	}
}

func TestState_Transiciones(t *testing.T) {
	assert.True(t, StateCaptured.CanTransitionTo(StateDeptReview))
	assert.True(t, StateCoding.CanTransitionTo(StateDeptReview))
	assert.True(t, StateDeptReview.CanTransitionTo(StateApproved))
	assert.True(t, StateDeptReview.CanTransitionTo(StatePriceReview))
	assert.True(t, StateDeptReview.CanTransitionTo(StateCoding), "el rechazo devuelve a codificación")
	assert.True(t, StatePriceReview.CanTransitionTo(StateComplete))

	assert.False(t, StateCaptured.CanTransitionTo(StateApproved), "no se salta la revisión departamental")
	assert.False(t, StateApproved.CanTransitionTo(StateComplete))
	assert.False(t, StateComplete.CanTransitionTo(StateCoding))
}

func TestState_Terminales(t *testing.T) {
	assert.True(t, StateApproved.Terminal())
	assert.True(t, StateComplete.Terminal())
	assert.False(t, StateDeptReview.Terminal())
	assert.False(t, StatePriceReview.Terminal())
}

func TestParse_ParLegal(t *testing.T) {
	s, err := Parse(3, "approved")
	require.NoError(t, err)
	assert.Equal(t, StateApproved, s)
}

func TestParse_StatusDesconocido(t *testing.T) {
	_, err := Parse(3, "archivada")
	assert.Error(t, err)
}

func TestParse_ParIncoherente(t *testing.T) {
	_, err := Parse(2, "approved")
	assert.Error(t, err, "approved pertenece a la etapa 3")
}

func TestState_Valid(t *testing.T) {
	assert.True(t, StatePriceReview.Valid())
	assert.False(t, State("pendiente").Valid())
}
