package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"stockmanager/internal/usecase"
)

// 取込ファイルの必須カラム。順不同、ヘッダは大文字小文字を無視。
var expectedHeaders = []string{"code", "name", "quantity", "container_name", "weight"}

// rowsFromCSV はアップロードされたCSVを行トークン列に変換する。
// セルの解釈（数値か、weightが有効かなど）はusecase側の検証に任せ、
// ここではカラムの切り出しだけを行う。
func rowsFromCSV(r io.Reader) ([]usecase.StockRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New("could not read the uploaded file, please try again")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("the first row must contain the headers: %s", strings.Join(expectedHeaders, ", "))
	}

	index, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]usecase.StockRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, usecase.StockRow{
			Code:          cell(record, index["code"]),
			Name:          cell(record, index["name"]),
			Quantity:      cell(record, index["quantity"]),
			ContainerName: cell(record, index["container_name"]),
			Weight:        cell(record, index["weight"]),
		})
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, want := range expectedHeaders {
		if _, ok := index[want]; !ok {
			return nil, fmt.Errorf("file must contain the columns: %s", strings.Join(expectedHeaders, ", "))
		}
	}
	return index, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
