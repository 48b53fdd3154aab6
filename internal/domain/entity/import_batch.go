package entity

import "time"

// ImportBatch identifica una carga de un archivo del feed SAP en staging.
// Se crea una sola vez por archivo parseado con éxito y es inmutable; sus
// filas de staging se purgan después por retención y el batch deja de
// referenciarse.
type ImportBatch struct {
	ID             string
	SourceFileName string
	RowCount       int
	LoadedAt       time.Time
}

// StagingRecord una fila cruda del feed, etiquetada con su batch. Efímera:
// nace en la ingesta y la borra la purga de retención; nadie la referencia
// después.
type StagingRecord struct {
	ID            string
	ImportBatchID string
	AssetNo       string
	Fields        map[string]string // columnas crudas del archivo, tal como llegaron
	LoadedAt      time.Time
}
