// Package tax clasifica el total de impuestos de una factura en los tipos
// canadienses (GST, PST, HST) escaneando el texto reconocido del documento.
// Es una heurística de mejor esfuerzo: la codificación puede corregirla.
package tax

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Notas que acompañan cada resultado del clasificador. Son texto visible en
// la interfaz de codificación, no códigos internos.
const (
	NoteAutoDetected   = "auto-detected"
	NoteEstimatedSplit = "auto-detected, estimated split"
	NoteUnknown        = "tax type unknown, needs manual review"
)

// Breakdown es el desglose estimado. Un bucket nil significa "no aplica";
// cero significa "aplica pero el monto es cero".
type Breakdown struct {
	GST   *decimal.Decimal
	PST   *decimal.Decimal
	HST   *decimal.Decimal
	Notes string
}

var (
	// Tokens como palabras completas: "hst" en "ghosting" no cuenta.
	reHST = regexp.MustCompile(`\bhst\b`)
	reGST = regexp.MustCompile(`\bgst\b`)
	rePST = regexp.MustCompile(`\bpst\b`)

	gstRate = decimal.NewFromFloat(0.05) // GST federal, 5%
)

// Classify reparte taxTotal entre los buckets según los tokens presentes en
// el texto del documento. subtotal puede ser nil (no detectado por el OCR).
//
// Reglas, en orden:
//  1. HST presente: todo el total va a HST (impuesto combinado).
//  2. GST y PST presentes: GST se estima como 5% del subtotal y el resto va a
//     PST; si el resto saldría negativo, todo colapsa en GST. Sin subtotal
//     conocido, por convención todo va a GST (aproximación documentada).
//  3. Solo GST presente: todo el total va a GST.
//  4. Ningún token: buckets vacíos, requiere revisión manual.
func Classify(taxTotal decimal.Decimal, subtotal *decimal.Decimal, text string) Breakdown {
	lower := strings.ToLower(text)

	switch {
	case reHST.MatchString(lower):
		return Breakdown{HST: &taxTotal, Notes: NoteAutoDetected}

	case reGST.MatchString(lower) && rePST.MatchString(lower):
		if subtotal == nil || !subtotal.IsPositive() {
			return Breakdown{GST: &taxTotal, Notes: NoteEstimatedSplit}
		}
		gst := subtotal.Mul(gstRate).Round(2)
		pst := taxTotal.Sub(gst)
		if pst.IsNegative() {
			return Breakdown{GST: &taxTotal, Notes: NoteEstimatedSplit}
		}
		return Breakdown{GST: &gst, PST: &pst, Notes: NoteEstimatedSplit}

	case reGST.MatchString(lower):
		return Breakdown{GST: &taxTotal, Notes: NoteAutoDetected}

	default:
		return Breakdown{Notes: NoteUnknown}
	}
}
