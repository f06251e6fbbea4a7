package entity

import "sort"

// Nomes lógicos das tabelas carregadas na inicialização.
const (
	DatasetMain           = "main"
	DatasetPerUnitAverage = "per-unit-average"
	DatasetTimeSeries     = "time-series"
)

// Dataset agrupa as tabelas carregadas, indexadas pelo nome lógico.
// É montado uma vez e só lido depois disso.
type Dataset struct {
	tables map[string]Table
}

// NewDataset builds a dataset from already loaded tables.
func NewDataset(tables map[string]Table) Dataset {
	d := Dataset{tables: make(map[string]Table, len(tables))}
	for name, t := range tables {
		d.tables[name] = t
	}
	return d
}

// Table returns the table registered under name.
func (d Dataset) Table(name string) (Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// Names returns the logical table names in lexical order.
func (d Dataset) Names() []string {
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns how many tables the dataset holds.
func (d Dataset) Len() int { return len(d.tables) }
