package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Service reads input workbooks from a fixed directory. Each contract maps
// to <dir>/<sheet>.xlsx, first worksheet, header row first.
type Service struct {
	Dir string
}

// dateLayouts covers ISO dates plus the short forms excelize renders for
// date-formatted cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
}

// Read loads every data row of the contract's workbook. A missing workbook
// yields ErrSheetNotFound; a missing required column is fatal for the sheet.
// Cell-level coercion failures are attached to the affected record only.
func (s *Service) Read(c Contract) ([]Record, error) {
	path := filepath.Join(s.Dir, c.Sheet+".xlsx")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, ErrSheetNotFound)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse excel file %s: %w", path, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%s is empty: %w", path, ErrSheetNotFound)
	}

	headers := rows[0]
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range c.Columns {
		if _, ok := index[col.Name]; !ok && !col.Optional {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Sheet: c.Sheet, Missing: missing}
	}

	records := make([]Record, 0, len(rows)-1)
	for rowIdx, raw := range rows[1:] {
		rec := Record{Row: rowIdx + 1, Cells: make(map[string]Value, len(c.Columns))}
		for _, col := range c.Columns {
			pos, ok := index[col.Name]
			cell := ""
			if ok && pos < len(raw) {
				cell = strings.TrimSpace(raw[pos])
			}
			if cell == "" {
				rec.Cells[col.Name] = Absent(col.Type)
				continue
			}
			v, err := coerce(cell, col.Type)
			if err != nil {
				rec.Err = &TypeCoercionError{
					Sheet:  c.Sheet,
					Row:    rec.Row,
					Column: col.Name,
					Raw:    cell,
					Want:   col.Type,
				}
				break
			}
			rec.Cells[col.Name] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

func coerce(raw string, t CellType) (Value, error) {
	switch t {
	case TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// excelize renders integer cells as floats at times
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil || f != float64(int64(f)) {
				return Value{}, err
			}
			n = int64(f)
		}
		return Int(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case TypeDate:
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, raw); err == nil {
				return Date(d), nil
			}
		}
		return Value{}, fmt.Errorf("unrecognized date %q", raw)
	default:
		return Str(raw), nil
	}
}
