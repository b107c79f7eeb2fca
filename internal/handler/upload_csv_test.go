package handler

import (
	"strings"
	"testing"

	"stockmanager/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsFromCSV(t *testing.T) {
	t.Run("ヘッダ順に依存せずカラムを切り出す", func(t *testing.T) {
		src := strings.Join([]string{
			"weight,name,code,container_name,quantity",
			"KG_75,Rice,A-1,C1,5",
			"BAGS,Beans,,C2,3",
		}, "\n")

		rows, err := rowsFromCSV(strings.NewReader(src))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, usecase.StockRow{
			Code: "A-1", Name: "Rice", Quantity: "5", ContainerName: "C1", Weight: "KG_75",
		}, rows[0])
		assert.Equal(t, "", rows[1].Code)
		assert.Equal(t, "Beans", rows[1].Name)
	})

	t.Run("ヘッダは大文字小文字を無視する", func(t *testing.T) {
		src := "Code,NAME,Quantity,Container_Name,WEIGHT\nA-1,Rice,5,C1,KG_75\n"
		rows, err := rowsFromCSV(strings.NewReader(src))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("欠けたセルは空文字として返す", func(t *testing.T) {
		src := "code,name,quantity,container_name,weight\nA-1,Rice\n"
		rows, err := rowsFromCSV(strings.NewReader(src))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Rice", rows[0].Name)
		assert.Equal(t, "", rows[0].Quantity)
		assert.Equal(t, "", rows[0].Weight)
	})

	t.Run("必須カラムが無ければエラー", func(t *testing.T) {
		src := "code,name,quantity\nA-1,Rice,5\n"
		_, err := rowsFromCSV(strings.NewReader(src))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file must contain the columns")
	})

	t.Run("空のファイルはエラー", func(t *testing.T) {
		_, err := rowsFromCSV(strings.NewReader(""))
		require.Error(t, err)
	})
}
