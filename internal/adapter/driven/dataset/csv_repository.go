package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/domain/repository"
	"github.com/igormath/ic-dataviz/internal/shared/textnorm"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

// rawRecord é a linha do CSV antes da coerção numérica.
type rawRecord struct {
	Unit     string `csv:"UNIDADE"`
	Role     string `csv:"CARGO"`
	Year     string `csv:"ANO"`
	Total    string `csv:"Nota_RAD"`
	Ensino   string `csv:"Ensino"`
	Pesquisa string `csv:"Pesquisa"`
	Extensao string `csv:"Extensão"`
	Gestao   string `csv:"Gestão"`
}

var requiredColumns = []entity.Column{entity.ColumnUnit, entity.ColumnTotal}

// CSVRepositoryImpl implementa o DatasetRepository lendo arquivos CSV locais.
type CSVRepositoryImpl struct {
	delimiter rune
}

// NewCSVRepository cria o leitor de CSV. Um delimitador vazio ou "auto" é
// detectado a partir do cabeçalho de cada arquivo.
func NewCSVRepository(delimiter string) repository.DatasetRepository {
	r := &CSVRepositoryImpl{}
	switch delimiter {
	case "", "auto":
	case `\t`, "tab":
		r.delimiter = '\t'
	default:
		r.delimiter = []rune(delimiter)[0]
	}
	return r
}

// WithDelimiter devolve um leitor com outro delimitador.
func (r *CSVRepositoryImpl) WithDelimiter(delimiter string) repository.DatasetRepository {
	return NewCSVRepository(delimiter)
}

// LoadDataset carrega as tabelas configuradas em paralelo. A primeira falha
// cancela as demais e nenhum dataset parcial é devolvido.
func (r *CSVRepositoryImpl) LoadDataset(ctx context.Context, paths map[string]string) (entity.Dataset, error) {
	if len(paths) == 0 {
		return entity.Dataset{}, types.ErrNoDatasetConfigured
	}

	var mu sync.Mutex
	tables := make(map[string]entity.Table, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for name, path := range paths {
		g.Go(func() error {
			table, err := r.LoadTable(gctx, path)
			if err != nil {
				return fmt.Errorf("loading %s table: %w", name, err)
			}
			mu.Lock()
			tables[name] = table
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.Dataset{}, err
	}
	return entity.NewDataset(tables), nil
}

// LoadTable lê um arquivo CSV, normaliza a vírgula decimal e converte as colunas numéricas.
func (r *CSVRepositoryImpl) LoadTable(ctx context.Context, path string) (entity.Table, error) {
	if err := ctx.Err(); err != nil {
		return entity.Table{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Table{}, fmt.Errorf("error reading dataset file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = r.delimiter
	if reader.Comma == 0 {
		reader.Comma = detectDelimiter(data)
	}
	reader.TrimLeadingSpace = true

	// lines guarda a linha física de cada registro: campos entre aspas podem
	// atravessar quebras de linha.
	var rows [][]string
	var lines []int
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entity.Table{}, fmt.Errorf("error parsing CSV file %s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	if len(rows) == 0 {
		return entity.Table{}, fmt.Errorf("%s: %w: empty file", path, types.ErrMissingColumn)
	}

	columns := canonicalizeHeader(rows[0])
	for _, required := range requiredColumns {
		if !containsColumn(columns, required) {
			return entity.Table{}, fmt.Errorf("%s: %w: %s", path, types.ErrMissingColumn, required)
		}
	}

	var raws []rawRecord
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: rows}, &raws); err != nil {
		return entity.Table{}, fmt.Errorf("error decoding CSV file %s: %w", path, err)
	}

	records := make([]entity.Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := coerce(raw, columns)
		if err != nil {
			var mse *types.MalformedScoreError
			if errors.As(err, &mse) {
				mse.Path = path
				mse.Line = lines[i+1]
			}
			return entity.Table{}, err
		}
		records = append(records, rec)
	}

	return entity.NewTable(records, columns...), nil
}

// coerce converte as colunas numéricas presentes no arquivo.
func coerce(raw rawRecord, columns []entity.Column) (entity.Record, error) {
	rec := entity.Record{
		Unit: strings.TrimSpace(raw.Unit),
		Role: strings.TrimSpace(raw.Role),
	}

	numeric := []struct {
		column entity.Column
		value  string
		target *float64
	}{
		{entity.ColumnTotal, raw.Total, &rec.Total},
		{entity.ColumnEnsino, raw.Ensino, &rec.Ensino},
		{entity.ColumnPesquisa, raw.Pesquisa, &rec.Pesquisa},
		{entity.ColumnExtensao, raw.Extensao, &rec.Extensao},
		{entity.ColumnGestao, raw.Gestao, &rec.Gestao},
	}
	for _, n := range numeric {
		if !containsColumn(columns, n.column) {
			continue
		}
		v, err := ParseDecimal(n.value)
		if err != nil {
			return entity.Record{}, &types.MalformedScoreError{Column: string(n.column), Value: n.value, Err: err}
		}
		*n.target = v
	}

	if containsColumn(columns, entity.ColumnYear) {
		year, err := ParseYear(raw.Year)
		if err != nil {
			return entity.Record{}, &types.MalformedScoreError{Column: string(entity.ColumnYear), Value: raw.Year, Err: err}
		}
		rec.Year = year
	}

	return rec, nil
}

// ParseDecimal aceita vírgula ou ponto como separador decimal: "7,5" vira 7.5.
func ParseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q is not a finite number", s)
	}
	return v, nil
}

// ParseYear aceita anos inteiros, inclusive exportados como "2019.0".
func ParseYear(s string) (int, error) {
	f, err := ParseDecimal(s)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("year %q is not an integer", s)
	}
	return int(f), nil
}

// canonicalizeHeader reescreve os nomes conhecidos do cabeçalho para a grafia
// publicada, ignorando acentos e caixa, e devolve as colunas reconhecidas.
func canonicalizeHeader(header []string) []entity.Column {
	var columns []entity.Column
	for i, name := range header {
		for _, col := range entity.AllColumns {
			if textnorm.Equal(name, string(col)) {
				header[i] = string(col)
				if !containsColumn(columns, col) {
					columns = append(columns, col)
				}
				break
			}
		}
	}
	return columns
}

func containsColumn(columns []entity.Column, c entity.Column) bool {
	for _, col := range columns {
		if col == c {
			return true
		}
	}
	return false
}

// detectDelimiter escolhe entre vírgula e ponto e vírgula olhando a primeira linha.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// rowsReader entrega ao gocsv linhas já lidas e com o cabeçalho normalizado.
type rowsReader struct {
	rows [][]string
	pos  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rows := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rows, nil
}
