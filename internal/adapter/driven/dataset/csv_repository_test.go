package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const mainCSV = `UNIDADE,CARGO,ANO,Nota_RAD,Ensino,Pesquisa,Extensão,Gestão
Caruaru,Professor Adjunto,2019,"7,5","8,0",6,"5,25",9
POLI,Professor Titular,2020,9,9,9,9,9
Mata Norte,Professor Auxiliar,2019,"6,0",7,"4,5",6,"6,5"
`

func TestLoadTable_CommaDecimals(t *testing.T) {
	path := writeFile(t, "main.csv", mainCSV)

	table, err := NewCSVRepository("").LoadTable(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	first := table.At(0)
	assert.Equal(t, entity.Record{
		Unit:     "Caruaru",
		Role:     "Professor Adjunto",
		Year:     2019,
		Total:    7.5,
		Ensino:   8.0,
		Pesquisa: 6,
		Extensao: 5.25,
		Gestao:   9,
	}, first)
	assert.Equal(t, "POLI", table.At(1).Unit)
	assert.Equal(t, "Mata Norte", table.At(2).Unit)
	assert.Equal(t, 6.5, table.At(2).Gestao)

	for _, col := range entity.AllColumns {
		assert.True(t, table.HasColumn(col), col)
	}
}

func TestLoadTable_SemicolonAndAccentlessHeader(t *testing.T) {
	path := writeFile(t, "number.csv", "\xef\xbb\xbfunidade;nota_rad;ensino;extensao;gestao\nFOP;7,5;8;6;5\nICB; 8,25 ;9;7;6\n")

	table, err := NewCSVRepository("auto").LoadTable(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, "FOP", table.At(0).Unit)
	assert.Equal(t, 7.5, table.At(0).Total)
	assert.Equal(t, 8.25, table.At(1).Total)
	assert.Equal(t, 6.0, table.At(0).Extensao)

	assert.True(t, table.HasColumn(entity.ColumnExtensao))
	assert.False(t, table.HasColumn(entity.ColumnPesquisa))
	assert.False(t, table.HasColumn(entity.ColumnYear))
}

func TestLoadTable_ExplicitDelimiter(t *testing.T) {
	path := writeFile(t, "tab.csv", "UNIDADE\tNota_RAD\nESEF\t5,5\n")

	table, err := NewCSVRepository("tab").LoadTable(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 5.5, table.At(0).Total)
}

func TestLoadTable_MalformedScore(t *testing.T) {
	path := writeFile(t, "bad.csv", "UNIDADE,Nota_RAD\nFCM,7\nFCM,pendente\n")

	_, err := NewCSVRepository("").LoadTable(context.Background(), path)
	require.Error(t, err)

	var mse *types.MalformedScoreError
	require.True(t, errors.As(err, &mse))
	assert.Equal(t, path, mse.Path)
	assert.Equal(t, 3, mse.Line)
	assert.Equal(t, "Nota_RAD", mse.Column)
	assert.Equal(t, "pendente", mse.Value)
}

func TestLoadTable_MalformedScoreLineAfterMultilineField(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
	}{
		{"quoted newline", "UNIDADE,CARGO,Nota_RAD\nFCM,\"Professor\nAdjunto\",7\nFCM,Professor Titular,x\n", 4},
		{"blank line", "UNIDADE,Nota_RAD\n\nFCM,7\nFCM,x\n", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "x.csv", tt.content)

			_, err := NewCSVRepository("").LoadTable(context.Background(), path)

			var mse *types.MalformedScoreError
			require.True(t, errors.As(err, &mse))
			assert.Equal(t, tt.wantLine, mse.Line)
			assert.Equal(t, "x", mse.Value)
		})
	}
}

func TestLoadTable_MalformedYear(t *testing.T) {
	path := writeFile(t, "year.csv", "UNIDADE,ANO,Nota_RAD\nFCM,2019.5,7\n")

	_, err := NewCSVRepository("").LoadTable(context.Background(), path)
	var mse *types.MalformedScoreError
	require.True(t, errors.As(err, &mse))
	assert.Equal(t, "ANO", mse.Column)
}

func TestLoadTable_MissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "nounit.csv", "CARGO,Nota_RAD\nProfessor Titular,7\n")

	_, err := NewCSVRepository("").LoadTable(context.Background(), path)
	assert.ErrorIs(t, err, types.ErrMissingColumn)
}

func TestLoadTable_HeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "UNIDADE,Nota_RAD\n")

	table, err := NewCSVRepository("").LoadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoadDataset(t *testing.T) {
	repo := NewCSVRepository("")
	mainPath := writeFile(t, "main.csv", mainCSV)
	seriesPath := writeFile(t, "series.csv", "UNIDADE,ANO,Nota_RAD\nCaruaru,2018,\"6,5\"\nCaruaru,2019,7\n")

	ds, err := repo.LoadDataset(context.Background(), map[string]string{
		entity.DatasetMain:       mainPath,
		entity.DatasetTimeSeries: seriesPath,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.DatasetMain, entity.DatasetTimeSeries}, ds.Names())

	series, ok := ds.Table(entity.DatasetTimeSeries)
	require.True(t, ok)
	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 6.5, series.At(0).Total)
}

func TestLoadDataset_NoPartialResult(t *testing.T) {
	repo := NewCSVRepository("")
	good := writeFile(t, "good.csv", mainCSV)
	bad := writeFile(t, "bad.csv", "UNIDADE,Nota_RAD\nFCM,x\n")

	ds, err := repo.LoadDataset(context.Background(), map[string]string{
		entity.DatasetMain:           good,
		entity.DatasetPerUnitAverage: bad,
	})
	var mse *types.MalformedScoreError
	assert.True(t, errors.As(err, &mse))
	assert.Equal(t, 0, ds.Len())
}

func TestLoadDataset_Errors(t *testing.T) {
	repo := NewCSVRepository("")

	_, err := repo.LoadDataset(context.Background(), nil)
	assert.ErrorIs(t, err, types.ErrNoDatasetConfigured)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.LoadDataset(ctx, map[string]string{entity.DatasetMain: "whatever.csv"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.LoadTable(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"7,5", 7.5, false},
		{" 8.25 ", 8.25, false},
		{"10", 10, false},
		{"", 0, true},
		{"NaN", 0, true},
		{"7,5,1", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDecimal(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
