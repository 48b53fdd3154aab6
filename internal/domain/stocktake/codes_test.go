package stocktake_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/asset-registry/internal/domain/stocktake"
)

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeCode
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeCode_EspaciosYGuiones(t *testing.T) {
	assert.Equal(t, "NOT_COUNTED", stocktake.NormalizeCode("  not counted "))
	assert.Equal(t, "BAR_CODE", stocktake.NormalizeCode("bar-code"))
	assert.Equal(t, "A_B_C", stocktake.NormalizeCode("a - b\tc"))
	assert.Equal(t, "", stocktake.NormalizeCode("   "))
}

// ──────────────────────────────────────────────────────────────────────────────
// ToStatusCode: alias conocidos, fallback de identidad y default
// ──────────────────────────────────────────────────────────────────────────────

func TestToStatusCode_AliasConocidos(t *testing.T) {
	cases := map[string]string{
		"ok":               stocktake.StatusCounted,
		"Active":           stocktake.StatusCounted,
		"NORMAL":           stocktake.StatusCounted,
		"counted":          stocktake.StatusCounted,
		"notfound":         stocktake.StatusNotCounted,
		"not found":        stocktake.StatusNotCounted,
		"lost":             stocktake.StatusNotCounted,
		"missing":          stocktake.StatusNotCounted,
		"damaged":          stocktake.StatusOther,
		"broken":           stocktake.StatusOther,
		"defective":        stocktake.StatusOther,
		"pending demolish": stocktake.StatusPending,
		"waiting-demolish": stocktake.StatusPending,
		"rejected":         stocktake.StatusRejected,
	}
	for in, want := range cases {
		assert.Equal(t, want, stocktake.ToStatusCode(in), "entrada: %q", in)
	}
}

// Los tokens desconocidos no se rechazan: pasan en su forma normalizada.
func TestToStatusCode_FallbackIdentidad(t *testing.T) {
	assert.Equal(t, "EN_REPARACION", stocktake.ToStatusCode("en reparacion"))
	assert.Equal(t, "X123", stocktake.ToStatusCode("x123"))
}

func TestToStatusCode_VacioEsCounted(t *testing.T) {
	assert.Equal(t, stocktake.StatusCounted, stocktake.ToStatusCode(""))
	assert.Equal(t, stocktake.StatusCounted, stocktake.ToStatusCode("   "))
}

// ──────────────────────────────────────────────────────────────────────────────
// ToCountMethod
// ──────────────────────────────────────────────────────────────────────────────

func TestToCountMethod_AliasConocidos(t *testing.T) {
	cases := map[string]string{
		"qr":       stocktake.MethodQR,
		"QRCode":   stocktake.MethodQR,
		"mobile":   stocktake.MethodManual,
		"manual":   stocktake.MethodManual,
		"excel":    stocktake.MethodExcel,
		"bar code": stocktake.MethodBarcode,
		"bc":       stocktake.MethodBarcode,
	}
	for in, want := range cases {
		assert.Equal(t, want, stocktake.ToCountMethod(in), "entrada: %q", in)
	}
}

func TestToCountMethod_VacioEsManual(t *testing.T) {
	assert.Equal(t, stocktake.MethodManual, stocktake.ToCountMethod(""))
}

func TestToCountMethod_FallbackIdentidad(t *testing.T) {
	assert.Equal(t, "RFID", stocktake.ToCountMethod("rfid"))
}
