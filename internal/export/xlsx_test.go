package export

import (
	"bytes"
	"testing"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBoard(t *testing.T) {
	cols := []*columns.Column{
		{ID: "c1", Name: "Owner email", Type: types.ColumnEmail},
		{ID: "c2", Name: "Budget", Type: types.ColumnCurrency, Settings: &columns.CurrencySettings{Currency: "EUR", Decimals: 2}},
		{ID: "c3", Name: "Secret", Type: types.ColumnText, IsHidden: true},
	}
	items := []*repository.Item{
		{Name: "Launch", Cells: map[string]any{"c1": "ada@example.com", "c2": 10.5, "c3": "x"}},
		{Name: "Empty"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBoard(&buf, &repository.Board{Name: "Q3: plans"}, cols, items))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Q3 plans"}, f.GetSheetList())
	rows, err := f.GetRows("Q3 plans")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Owner email", "Budget"}, rows[0])
	assert.Equal(t, []string{"Launch", "ada@example.com", "10.50 EUR"}, rows[1])
	assert.Equal(t, "Empty", rows[2][0])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Board", SheetName(" /?* "))
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz01234", SheetName("abcdefghijklmnopqrstuvwxyz0123456789"))
}
