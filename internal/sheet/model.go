package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrSheetNotFound is returned by Read when the workbook for a sheet does
// not exist on disk. Callers substitute synthesized data in that case.
var ErrSheetNotFound = errors.New("sheet workbook not found")

type CellType int

const (
	TypeString CellType = iota
	TypeInt
	TypeFloat
	TypeDate
)

func (t CellType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDate:
		return "date"
	default:
		return "string"
	}
}

type Column struct {
	Name     string
	Type     CellType
	Optional bool
}

// Contract describes one input workbook: its base name (schools →
// schools.xlsx) and the ordered columns the header row must provide.
type Contract struct {
	Sheet   string
	Columns []Column
}

func (c Contract) ColumnNames() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// Value is one typed cell. Absent marks a blank optional cell explicitly;
// it is never silently defaulted.
type Value struct {
	Type   CellType
	Absent bool

	str   string
	num   int64
	flt   float64
	date  time.Time
}

func Str(v string) Value      { return Value{Type: TypeString, str: v} }
func Int(v int64) Value       { return Value{Type: TypeInt, num: v} }
func Float(v float64) Value   { return Value{Type: TypeFloat, flt: v} }
func Date(v time.Time) Value  { return Value{Type: TypeDate, date: v} }
func Absent(t CellType) Value { return Value{Type: t, Absent: true} }

func (v Value) S() string       { return v.str }
func (v Value) I() int64        { return v.num }
func (v Value) F() float64      { return v.flt }
func (v Value) T() time.Time    { return v.date }

// String renders the cell for logging and journal dumps.
func (v Value) String() string {
	if v.Absent {
		return ""
	}
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.num, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.flt, 'f', -1, 64)
	case TypeDate:
		return v.date.Format("2006-01-02")
	default:
		return v.str
	}
}

// Record is one sheet row keyed by column name. Row is the 1-based data row
// index (header excluded). A coercion failure is attached to the row rather
// than failing the whole sheet, so one bad cell skips one row.
type Record struct {
	Row   int
	Cells map[string]Value
	Err   error
}

func (r Record) Get(col string) Value { return r.Cells[col] }

type SchemaMismatchError struct {
	Sheet   string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("sheet %s: missing required columns: %s", e.Sheet, strings.Join(e.Missing, ", "))
}

type TypeCoercionError struct {
	Sheet  string
	Row    int
	Column string
	Raw    string
	Want   CellType
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("sheet %s row %d: column %q: cannot coerce %q to %s",
		e.Sheet, e.Row, e.Column, e.Raw, e.Want)
}
