package application

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ahrav/shopbench/internal/domain"
)

// maxRecordBytes bounds a single dataset line. Prompts carry full product
// descriptions and few-shot examples, so lines run well past the scanner
// default.
const maxRecordBytes = 4 << 20

// LoadDataset reads the line-delimited JSON benchmark dataset at path.
// Any malformed line aborts the load with its line number; a dataset that
// cannot be parsed in full is a configuration defect, not skippable data.
func LoadDataset(path string) ([]domain.TaskRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return records, nil
}

// ReadDataset decodes one TaskRecord per non-blank line of r, validating
// each record's required fields and task type as it goes.
func ReadDataset(r io.Reader) ([]domain.TaskRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxRecordBytes)

	var records []domain.TaskRecord
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var record domain.TaskRecord
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := validate.Struct(record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := domain.ParseTaskType(string(record.TaskType)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrNoSamples
	}
	return records, nil
}
