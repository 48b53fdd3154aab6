// Package stocktake contiene las reglas puras del inventario físico que no
// dependen de infraestructura: la normalización de códigos de estado y de
// método de conteo.
//
// El vocabulario canónico es un conjunto *preferido*, no un enum cerrado:
// los tokens desconocidos pasan tal cual en su forma normalizada (fallback de
// identidad). Esta permisividad es deliberada y está cubierta por tests.
package stocktake

import (
	"regexp"
	"strings"
)

// Códigos canónicos de estado de conteo.
const (
	StatusCounted    = "COUNTED"
	StatusNotCounted = "NOT_COUNTED"
	StatusOther      = "OTHER"
	StatusPending    = "PENDING"
	StatusRejected   = "REJECTED"
)

// Métodos canónicos de conteo.
const (
	MethodQR      = "QR"
	MethodManual  = "MANUAL"
	MethodExcel   = "EXCEL"
	MethodBarcode = "BARCODE"
)

var collapseRe = regexp.MustCompile(`[\s-]+`)

// NormalizeCode pasa un token libre a MAYÚSCULAS_CON_GUION_BAJO:
// trim, uppercase y espacios/guiones colapsados a "_".
func NormalizeCode(v string) string {
	s := strings.ToUpper(strings.TrimSpace(v))
	return collapseRe.ReplaceAllString(s, "_")
}

// statusAliases mapa inmutable de alias -> código canónico de estado.
var statusAliases = map[string]string{
	"COUNTED": StatusCounted,
	"NORMAL":  StatusCounted,
	"ACTIVE":  StatusCounted,
	"OK":      StatusCounted,

	"NOT_COUNTED": StatusNotCounted,
	"NOTFOUND":    StatusNotCounted,
	"NOT_FOUND":   StatusNotCounted,
	"LOST":        StatusNotCounted,
	"MISSING":     StatusNotCounted,

	"DAMAGED":   StatusOther,
	"BROKEN":    StatusOther,
	"DEFECTIVE": StatusOther,
	"OTHER":     StatusOther,

	"PENDING":          StatusPending,
	"PENDING_DEMOLISH": StatusPending,
	"WAITING_DEMOLISH": StatusPending,

	"REJECTED": StatusRejected,
}

// ToStatusCode normaliza un estado de conteo libre. Vacío -> COUNTED (el caso
// real más común); desconocido -> su forma normalizada sin cambios. Nunca
// retorna error.
func ToStatusCode(v string) string {
	key := NormalizeCode(v)
	if key == "" {
		return StatusCounted
	}
	if canonical, ok := statusAliases[key]; ok {
		return canonical
	}
	return key
}

// methodAliases mapa inmutable de alias -> método canónico de conteo.
var methodAliases = map[string]string{
	"QR":       MethodQR,
	"QRCODE":   MethodQR,
	"MANUAL":   MethodManual,
	"MOBILE":   MethodManual,
	"EXCEL":    MethodExcel,
	"BARCODE":  MethodBarcode,
	"BAR_CODE": MethodBarcode,
	"BC":       MethodBarcode,
}

// ToCountMethod normaliza un método de conteo libre. Vacío -> MANUAL;
// desconocido -> su forma normalizada sin cambios. Nunca retorna error.
func ToCountMethod(v string) string {
	key := NormalizeCode(v)
	if key == "" {
		return MethodManual
	}
	if canonical, ok := methodAliases[key]; ok {
		return canonical
	}
	return key
}
