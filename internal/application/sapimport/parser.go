package sapimport

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/tu-usuario/asset-registry/internal/domain"
)

// El feed de SAP viene delimitado por "|" y sus campos de texto traen comillas
// literales (descripciones tipo `10" 8"`), así que el quoting debe estar
// deshabilitado por completo: una comilla jamás agrupa campos. encoding/csv
// no permite apagar el quoting, por eso el tokenizador es un split directo
// por línea.

const feedDelimiter = "|"

// ParseFeedFile lee y parsea un archivo del feed. La primera fila son los
// encabezados de columna; cada fila posterior se convierte a un mapa
// columna -> valor (ambos con trim). Filas vacías se saltan; a las filas
// cortas les faltan claves y a las largas se les descartan los sobrantes,
// igual que hacía el parser del feed original.
func ParseFeedFile(fullPath string) ([]map[string]string, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", fullPath, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var headers []string
	rows := make([]map[string]string, 0, 256)

	for sc.Scan() {
		line := sc.Text()
		if headers == nil {
			line = strings.TrimPrefix(line, "\uFEFF") // BOM
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, feedDelimiter)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		if headers == nil {
			headers = fields
			continue
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(fields) {
				row[h] = fields[i]
			}
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("leer %s: %w", fullPath, err)
	}
	if headers == nil {
		return nil, fmt.Errorf("%s: %w", fullPath, domain.ErrEmptyFile)
	}

	return rows, nil
}
