package lead

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadJSONL decodes one record per line. Blank lines are skipped; line numbers
// in errors are 1-based.
func ReadJSONL(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	records := []Record{}
	lineNo := 0

	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) > 0 {
				var rec Record
				if uerr := json.Unmarshal(trimmed, &rec); uerr != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, uerr)
				}
				records = append(records, rec)
			}
		}
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", lineNo+1, err)
		}
	}
}

// WriteJSONL encodes each record on its own line, newline-terminated.
func WriteJSONL(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for i, rec := range records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
