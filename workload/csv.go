// Package workload reads, writes and generates lists of memory requests.
package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/simulation"
)

// ErrParse is wrapped by the errors of malformed request files.
var ErrParse = errors.New("malformed request")

// ParseCSV reads one request per row. A row is "R,<addr>[,<expected>]" or
// "W,<addr>,<data>" and values are decimal or 0x-prefixed hexadecimal.
// Blank lines are skipped.
func ParseCSV(r io.Reader) ([]simulation.Request, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var reqs []simulation.Request

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return reqs, nil
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		line, _ := reader.FieldPos(0)

		req, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}

		reqs = append(reqs, req)
	}
}

// LoadCSV parses the request file at path.
func LoadCSV(path string) ([]simulation.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reqs, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return reqs, nil
}

func parseRecord(record []string) (simulation.Request, error) {
	req := simulation.Request{}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	if len(record) < 2 || len(record) > 3 {
		return req, fmt.Errorf("%d fields, want 2 or 3", len(record))
	}

	addr, err := parseValue(record[1])
	if err != nil {
		return req, fmt.Errorf("address: %w", err)
	}

	req.Address = addr

	value := ""
	if len(record) == 3 {
		value = record[2]
	}

	switch strings.ToUpper(record[0]) {
	case "R":
		return parseRead(req, value)
	case "W":
		return parseWrite(req, value)
	default:
		return req, fmt.Errorf("unknown request type %q", record[0])
	}
}

func parseRead(req simulation.Request, expected string) (simulation.Request, error) {
	if expected == "" {
		return req, nil
	}

	v, err := parseValue(expected)
	if err != nil {
		return req, fmt.Errorf("expected data: %w", err)
	}

	req.Expected = v
	req.HasExpected = true

	return req, nil
}

func parseWrite(req simulation.Request, data string) (simulation.Request, error) {
	if data == "" {
		return req, errors.New("write without data")
	}

	v, err := parseValue(data)
	if err != nil {
		return req, fmt.Errorf("data: %w", err)
	}

	req.IsWrite = true
	req.Data = v

	return req, nil
}

func parseValue(s string) (uint32, error) {
	base := 10
	digits := s

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}

	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a 32-bit unsigned number", s)
	}

	return uint32(v), nil
}

// WriteCSV writes the requests in the format ParseCSV reads.
func WriteCSV(w io.Writer, reqs []simulation.Request) error {
	writer := csv.NewWriter(w)

	for _, req := range reqs {
		if err := writer.Write(formatRecord(req)); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}

func formatRecord(req simulation.Request) []string {
	addr := hex(req.Address)

	switch {
	case req.IsWrite:
		return []string{"W", addr, hex(req.Data)}
	case req.HasExpected:
		return []string{"R", addr, hex(req.Expected)}
	default:
		return []string{"R", addr, ""}
	}
}

func hex(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}
