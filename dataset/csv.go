package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSVProvider loads splits from local CSV files laid out as
// <root>/<split>.csv. Every column except the label column is parsed as a
// float32 feature; the label column (default "label", configurable) is the
// example's label. Row order in the file is the collection order.
//
// The provider has no remote source: if the split file is missing, the load
// fails with a ProviderError regardless of the download flag.
type CSVProvider struct {
	Name string

	// LabelColumn names the label column. Defaults to "label".
	LabelColumn string
}

// Load implements Provider.
func (p *CSVProvider) Load(ctx context.Context, root, split string, download bool) (Collection, error) {
	path := filepath.Join(root, split+".csv")
	examples, err := p.readCSV(path)
	if err != nil {
		return nil, &ProviderError{Dataset: p.Name, Split: split, Err: err}
	}
	return examples, nil
}

func (p *CSVProvider) readCSV(path string) (SliceCollection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	labelCol := p.LabelColumn
	if labelCol == "" {
		labelCol = "label"
	}
	labelIdx := -1
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) == labelCol {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("label column %q not found in header", labelCol)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	examples := make(SliceCollection, 0, len(rows))
	for rowIdx, row := range rows {
		features := make([]float32, 0, len(row)-1)
		var label float32
		for i, cell := range row {
			v, err := parseFloat32(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", rowIdx, header[i], err)
			}
			if i == labelIdx {
				label = v
			} else {
				features = append(features, v)
			}
		}
		examples = append(examples, Example{Input: features, Label: label})
	}
	return examples, nil
}

func parseFloat32(s string) (float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

var _ Provider = (*CSVProvider)(nil)
