package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/repo"
)

type ImportMode string

const (
	ImportSkip   ImportMode = "skip"
	ImportUpdate ImportMode = "update"
)

// ParseImportMode defaults to ImportSkip for anything but "update".
func ParseImportMode(s string) ImportMode {
	if strings.ToLower(s) == string(ImportUpdate) {
		return ImportUpdate
	}
	return ImportSkip
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

type csvRow struct {
	line      int
	name      string
	sku       string
	quantity  int
	threshold int
}

var requiredColumns = []string{"name", "sku", "quantity"}

func parseCSV(r io.Reader) ([]csvRow, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV header: %w", err)
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("missing %q column", col)
		}
	}

	var rows []csvRow
	var rowErrors []string
	line := 1 // header is row 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %w", err)
		}

		row := csvRow{
			line: line,
			name: field(record, index, "name"),
			sku:  field(record, index, "sku"),
		}
		if row.quantity, err = parseInt(field(record, index, "quantity")); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid quantity", line))
			continue
		}
		if row.threshold, err = parseInt(field(record, index, "threshold")); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid threshold", line))
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func field(record []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// ImportProducts creates one product per CSV row. Rows whose sku already
// exists are reported in ImportSkip mode and have their metadata updated in
// ImportUpdate mode; their quantity column is ignored since stock only moves
// through the ledger.
func (c *Catalog) ImportProducts(ctx context.Context, r io.Reader, mode ImportMode) (ImportResult, error) {
	rows, rowErrors, err := parseCSV(r)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Errors: rowErrors}
	for _, row := range rows {
		_, err := c.CreateProduct(ctx, NewProduct{
			Name:            row.name,
			Sku:             row.sku,
			InitialQuantity: row.quantity,
			Threshold:       row.threshold,
		})
		if errors.Is(err, repo.ErrDuplicateSku) && mode == ImportUpdate {
			err = c.updateFromRow(ctx, row)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row.line, err))
			continue
		}
		result.Imported++
	}

	c.logger.Info("📥 products imported",
		zap.Int("imported", result.Imported),
		zap.Int("errors", len(result.Errors)),
		zap.String("mode", string(mode)),
	)
	return result, nil
}

func (c *Catalog) updateFromRow(ctx context.Context, row csvRow) error {
	existing, err := c.products.GetBySku(ctx, row.sku)
	if err != nil {
		return err
	}
	_, err = c.UpdateProduct(ctx, existing.ID, ProductDetails{
		Name:      row.name,
		Sku:       row.sku,
		Threshold: row.threshold,
	})
	return err
}
