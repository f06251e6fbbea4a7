package entity

// Column identifica uma coluna do arquivo RAD pelo nome publicado no cabeçalho.
type Column string

const (
	ColumnUnit     Column = "UNIDADE"
	ColumnRole     Column = "CARGO"
	ColumnYear     Column = "ANO"
	ColumnTotal    Column = "Nota_RAD"
	ColumnEnsino   Column = "Ensino"
	ColumnPesquisa Column = "Pesquisa"
	ColumnExtensao Column = "Extensão"
	ColumnGestao   Column = "Gestão"
)

// Record represents one respondent/unit-period row of a RAD report.
type Record struct {
	Unit     string  `json:"unit" csv:"UNIDADE"`
	Role     string  `json:"role,omitempty" csv:"CARGO"`
	Year     int     `json:"year,omitempty" csv:"ANO"`
	Total    float64 `json:"nota_rad" csv:"Nota_RAD"`
	Ensino   float64 `json:"ensino" csv:"Ensino"`
	Pesquisa float64 `json:"pesquisa" csv:"Pesquisa"`
	Extensao float64 `json:"extensao" csv:"Extensão"`
	Gestao   float64 `json:"gestao" csv:"Gestão"`
}

// Score devolve o valor da dimensão pedida. O segundo retorno é false para
// dimensões desconhecidas.
func (r Record) Score(d Dimension) (float64, bool) {
	switch d {
	case DimensionTotal:
		return r.Total, true
	case DimensionEnsino:
		return r.Ensino, true
	case DimensionPesquisa:
		return r.Pesquisa, true
	case DimensionExtensao:
		return r.Extensao, true
	case DimensionGestao:
		return r.Gestao, true
	}
	return 0, false
}

// Table is an ordered, read-only sequence of records.
// Filtering never edits a Table; it builds a new one.
type Table struct {
	records []Record
	columns []Column
}

// NewTable copia os registros e as colunas presentes para uma nova tabela.
func NewTable(records []Record, columns ...Column) Table {
	t := Table{
		records: make([]Record, len(records)),
		columns: make([]Column, len(columns)),
	}
	copy(t.records, records)
	copy(t.columns, columns)
	return t
}

// Derive builds a table with the same column set as t over other records.
func (t Table) Derive(records []Record) Table {
	return NewTable(records, t.columns...)
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.records) }

// At returns the i-th row.
func (t Table) At(i int) Record { return t.records[i] }

// Records returns a copy of the rows.
func (t Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Columns returns the columns that were present in the source file.
func (t Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the source file carried column c.
func (t Table) HasColumn(c Column) bool {
	for _, col := range t.columns {
		if col == c {
			return true
		}
	}
	return false
}

// AllColumns lists every column a complete RAD file carries.
var AllColumns = []Column{
	ColumnUnit,
	ColumnRole,
	ColumnYear,
	ColumnTotal,
	ColumnEnsino,
	ColumnPesquisa,
	ColumnExtensao,
	ColumnGestao,
}
