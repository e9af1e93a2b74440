// Package workflow define la máquina de estados del flujo de aprobación de
// facturas. El estado es un tipo cerrado: cada variante fija el par legal
// (etapa, status), de modo que una combinación inválida no es representable.
package workflow

import "fmt"

// State estado del flujo de aprobación de una factura.
type State string

// Estados válidos del flujo.
const (
	StateCaptured    State = "captured"     // etapa 1: recién capturada (OCR o manual)
	StateCoding      State = "coding"       // etapa 2: devuelta a codificación por rechazo
	StateDeptReview  State = "dept_review"  // etapa 3: en revisión departamental
	StateApproved    State = "approved"     // etapa 3: aprobada sin cambios de precio
	StatePriceReview State = "price_review" // etapa 4: aprobada con cambios de precio pendientes
	StateComplete    State = "complete"     // etapa 4: cambios de precio resueltos
)

// Decisión de la revisión departamental.
const (
	DecisionPending  = "pending"
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Estados de revisión de un cambio de precio (etapa 4).
const (
	ReviewPending      = "pending"
	ReviewAcknowledged = "acknowledged"
	ReviewEscalated    = "escalated"
)

// stages mapea cada estado a su etapa (1-4). Nótese que "approved" queda en la
// etapa 3: la aprobación sin cambios de precio no avanza la etapa.
var stages = map[State]int{
	StateCaptured:    1,
	StateCoding:      2,
	StateDeptReview:  3,
	StateApproved:    3,
	StatePriceReview: 4,
	StateComplete:    4,
}

// transitions enumera las transiciones legales. La etapa nunca retrocede salvo
// por el rechazo explícito dept_review → coding.
var transitions = map[State][]State{
	StateCaptured:    {StateDeptReview},
	StateCoding:      {StateDeptReview},
	StateDeptReview:  {StateDeptReview, StateApproved, StatePriceReview, StateCoding},
	StatePriceReview: {StateComplete},
	StateApproved:    {},
	StateComplete:    {},
}

// Valid indica si s es uno de los estados enumerados.
func (s State) Valid() bool {
	_, ok := stages[s]
	return ok
}

// Stage devuelve la etapa del flujo (1-4) correspondiente al estado.
func (s State) Stage() int {
	return stages[s]
}

// Status devuelve el substatus textual que se persiste junto a la etapa.
func (s State) Status() string {
	return string(s)
}

// Terminal indica si el estado ya no admite transiciones.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo indica si la transición s → t es legal.
func (s State) CanTransitionTo(t State) bool {
	for _, next := range transitions[s] {
		if next == t {
			return true
		}
	}
	return false
}

// Parse reconstruye el estado a partir del par (etapa, status) persistido.
// Falla si el par no corresponde a ninguna variante legal.
func Parse(stage int, status string) (State, error) {
	s := State(status)
	if !s.Valid() {
		return "", fmt.Errorf("status de workflow desconocido: %q", status)
	}
	if stages[s] != stage {
		return "", fmt.Errorf("par (etapa, status) inválido: (%d, %q)", stage, status)
	}
	return s, nil
}
