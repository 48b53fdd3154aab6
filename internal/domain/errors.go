package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrYearNotOpen    = errors.New("el año de inventario no está abierto")
	ErrYearNotFound   = errors.New("no existe configuración para ese año de inventario")
	ErrEmptyFile      = errors.New("el archivo está vacío")
	ErrUnsupportedExt = errors.New("tipo de archivo no soportado: use .csv o .xlsx")
)
