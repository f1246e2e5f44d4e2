package nykaa

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Exporter writes Nykaa rows as CSV in the fixed column order.
type Exporter struct {
	mapper   *Mapper
	registry *Registry
}

// NewExporter builds an exporter sharing the given EAN registry so
// codes stay unique across batches within one session.
func NewExporter(registry *Registry) *Exporter {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Exporter{mapper: NewMapper(), registry: registry}
}

// BuildRows maps every source to a row, minting an EAN for products
// that have none.
func (e *Exporter) BuildRows(sources []Source) ([]Row, error) {
	rows := make([]Row, 0, len(sources))
	for i, src := range sources {
		if src.EAN == "" {
			ean, err := e.registry.Generate()
			if err != nil {
				return nil, fmt.Errorf("product %d (%s): %w", i, src.SKU, err)
			}
			src.EAN = ean
		} else if !ValidateEAN13(src.EAN) {
			return nil, fmt.Errorf("product %d (%s): invalid ean %q", i, src.SKU, src.EAN)
		}
		rows = append(rows, e.mapper.Map(src))
	}
	return rows, nil
}

// Write emits the header and every row to w.
func (e *Exporter) Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(Columns))
	for i, row := range rows {
		for j, col := range Columns {
			record[j] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export maps sources and writes the finished CSV in one pass.
func (e *Exporter) Export(w io.Writer, sources []Source) error {
	rows, err := e.BuildRows(sources)
	if err != nil {
		return err
	}
	return e.Write(w, rows)
}

// Reset clears the session EAN registry, for use between independent
// exports.
func (e *Exporter) Reset() {
	e.registry.Clear()
}
