package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFileType = errors.New("tipo de arquivo não suportado")

// ReadRows lê um arquivo .xlsx ou .csv e retorna as linhas não vazias.
func ReadRows(filename string, data []byte) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = "." + strings.ToLower(strings.TrimPrefix(filename, "."))
	}

	var rows [][]string
	switch ext {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		records, err := r.ReadAll()
		if err != nil {
			return nil, err
		}
		rows = records
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		records, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, err
		}
		rows = records
	default:
		return nil, ErrUnsupportedFileType
	}

	clean := make([][]string, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		clean = append(clean, row)
	}
	return clean, nil
}

func NormalizeHeader(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		hn := strings.TrimSpace(h)
		hn = strings.TrimPrefix(hn, "\ufeff")
		hn = strings.ToLower(hn)
		hn = strings.ReplaceAll(hn, " ", "_")
		hn = strings.Trim(hn, "\"'`")
		out[i] = hn
	}
	return out
}

// Record é uma linha de dados indexada pelo cabeçalho normalizado.
type Record struct {
	Line   int
	Values map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := r.Values[k]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Records converte linhas em registros; a primeira linha é o cabeçalho.
func Records(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, errors.New("arquivo vazio")
	}
	header := NormalizeHeader(rows[0])
	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		values := make(map[string]string, len(header))
		for j, key := range header {
			if key == "" {
				continue
			}
			if j < len(row) {
				values[key] = row[j]
			} else {
				values[key] = ""
			}
		}
		out = append(out, Record{Line: i + 2, Values: values})
	}
	return out, nil
}

func RequireColumns(rows [][]string, columns ...string) error {
	if len(rows) == 0 {
		return errors.New("arquivo vazio")
	}
	header := NormalizeHeader(rows[0])
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	missing := make([]string, 0)
	for _, c := range columns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("colunas obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}
	return nil
}

// WriteXLSX gera uma planilha com cabeçalho em negrito.
func WriteXLSX(sheetName string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, style); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(sheetName, cell, &r); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
