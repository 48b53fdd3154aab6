package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset representa un activo fijo del registro canónico. Es la única fuente
// de verdad que consulta el resto del sistema; lo crea/actualiza/desactiva
// exclusivamente la sincronización desde staging. Invariante: a lo sumo un
// Asset activo por AssetNo (clave de negocio) en todo momento.
type Asset struct {
	ID              string
	AssetNo         string // Clave de negocio (número de activo SAP)
	Description     string
	PlantID         string
	CostCenter      string
	Location        string
	AcquisitionDate *time.Time
	AcquisitionCost decimal.Decimal
	BookValue       decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AssetImage referencia una foto del activo en el file store.
type AssetImage struct {
	ID        string
	AssetID   string
	FileURL   string
	IsPrimary bool
	CreatedAt time.Time
}

// AssetMismatch una discrepancia entre el feed de SAP y el registro canónico
// (clave presente en un lado y ausente o distinta en el otro).
type AssetMismatch struct {
	AssetNo      string
	Description  string
	MismatchKind string // MISSING_IN_SAP, MISSING_IN_REGISTRY, FIELD_DIFF
	Detail       string
}
