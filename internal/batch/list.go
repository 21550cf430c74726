package batch

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const displayIDColumn = "display_id"

// ReadIdentifiers reads an identifier list. A CSV export with a display_id
// column yields that column; anything else is read as one identifier per
// line, ignoring blank lines and lines starting with '#'.
func ReadIdentifiers(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read identifier list: %w", err)
	}

	ids, ok, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	if ok {
		return ids, nil
	}
	return readLines(data)
}

// readCSV reports ok=false when the header has no display_id column.
func readCSV(data []byte) ([]string, bool, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, nil
	}

	column := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")), displayIDColumn) {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, false, nil
	}

	var ids []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, true, fmt.Errorf("read identifier list: %w", err)
		}
		if column >= len(record) {
			continue
		}
		if id := strings.TrimSpace(record[column]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, true, nil
}

func readLines(data []byte) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read identifier list: %w", err)
	}
	return ids, nil
}
