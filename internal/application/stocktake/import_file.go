package stocktake

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tu-usuario/asset-registry/internal/domain"
	"github.com/tu-usuario/asset-registry/internal/domain/entity"
	domstocktake "github.com/tu-usuario/asset-registry/internal/domain/stocktake"
)

// ParseCountFile parsea un archivo de conteo masivo subido por el usuario.
// Acepta .xlsx/.xls (primera hoja) y .csv/.txt o sin extensión; cualquier
// otra extensión es un error de validación que nunca llega al store.
// Cada fila se normaliza de forma independiente; filas sin AssetNo se saltan.
func ParseCountFile(originalName string, content []byte) ([]entity.StocktakeCountRow, error) {
	if len(content) == 0 {
		return nil, domain.ErrEmptyFile
	}

	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(originalName)))
	switch ext {
	case ".xlsx", ".xls":
		return parseXlsx(content)
	case ".csv", ".txt", "":
		return parseCsv(content)
	default:
		return nil, domain.ErrUnsupportedExt
	}
}

// parseCsv archivo de conteo CSV convencional (aquí el quoting estándar sí
// aplica, a diferencia del feed SAP).
func parseCsv(content []byte) ([]entity.StocktakeCountRow, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var headers []string
	var rows []entity.StocktakeCountRow

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsear csv de conteo: %w", err)
		}
		if headers == nil {
			headers = record
			continue
		}
		if row, ok := mapCountRow(headers, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// parseXlsx primera hoja del workbook, primera fila como encabezados.
func parseXlsx(content []byte) ([]entity.StocktakeCountRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx de conteo: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrEmptyFile
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, domain.ErrEmptyFile
	}

	headers := all[0]
	var rows []entity.StocktakeCountRow
	for _, record := range all[1:] {
		if row, ok := mapCountRow(headers, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

var headerJunkRe = regexp.MustCompile(`[\s_.\-]+`)

// stripDiacritics quita tildes y diéresis para que "Método" y "metodo"
// casen con el mismo alias.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeHeader pasa un encabezado a su forma de comparación: sin BOM,
// minúsculas, sin tildes y sin separadores.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\uFEFF")
	s = stripDiacritics(strings.ToLower(s))
	return headerJunkRe.ReplaceAllString(s, "")
}

// Alias de encabezado aceptados por columna (ya normalizados).
var (
	assetNoAliases = []string{"assetno", "assetnumber", "numeroactivo", "activo"}
	statusAliases  = []string{"statuscode", "status", "result", "estado"}
	noteAliases    = []string{"notetext", "note", "remark", "nota", "observacion"}
	methodAliases  = []string{"countmethod", "method", "source", "metodo", "origen"}
)

// mapCountRow convierte una fila cruda en una fila normalizada de conteo.
// Devuelve ok=false si la fila no trae AssetNo.
func mapCountRow(headers, record []string) (entity.StocktakeCountRow, bool) {
	index := make(map[string]string, len(headers))
	for i, h := range headers {
		if i >= len(record) {
			break
		}
		if key := normalizeHeader(h); key != "" {
			index[key] = strings.TrimSpace(record[i])
		}
	}

	pick := func(aliases []string) string {
		for _, a := range aliases {
			if v, ok := index[a]; ok && v != "" {
				return v
			}
		}
		return ""
	}

	assetNo := pick(assetNoAliases)
	if assetNo == "" {
		return entity.StocktakeCountRow{}, false
	}

	method := pick(methodAliases)
	if method == "" {
		method = domstocktake.MethodExcel
	}

	return entity.StocktakeCountRow{
		AssetNo:     assetNo,
		StatusCode:  domstocktake.ToStatusCode(pick(statusAliases)),
		NoteText:    toText(pick(noteAliases), 1000),
		CountMethod: domstocktake.ToCountMethod(method),
	}, true
}
