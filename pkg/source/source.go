// Package source reads card specs from semicolon separated files.
//
// The format is the spreadsheet export used for card sheets: one header
// row, then one card per row with the columns
//
//	header;body;image;color;id
//
// Rows are skipped, not rejected, when they are empty, have fewer than five
// columns, leave one of the five columns blank, or start with "_" (a comment
// row). Every skipped row is reported with its line number so the caller can
// warn about it. Columns after the fifth are ignored.
package source

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/card"
)

// Delimiter separates columns.
const Delimiter = ';'

// Columns is the number of columns a card row must have.
const Columns = 5

// commentPrefix marks rows that are kept in the sheet but not rendered.
const commentPrefix = "_"

// Skipped is a row that did not produce a card.
type Skipped struct {
	Line   int
	Reason string
}

func (s Skipped) String() string {
	return fmt.Sprintf("line %d: %s", s.Line, s.Reason)
}

// ReadSpecs parses card rows from r. Specs are returned in file order.
// Only malformed CSV (for example an unterminated quote) is an error.
func ReadSpecs(r io.Reader) ([]card.Spec, []Skipped, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		specs   []card.Spec
		skipped []Skipped
		header  = true
	)
	for {
		record, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read card sheet")
		}
		line, _ := cr.FieldPos(0)

		if header {
			header = false
			continue
		}
		if reason := rejectReason(record); reason != "" {
			skipped = append(skipped, Skipped{Line: line, Reason: reason})
			continue
		}
		specs = append(specs, card.Spec{
			Header: record[0],
			Body:   record[1],
			Image:  strings.TrimSpace(record[2]),
			Color:  strings.TrimSpace(record[3]),
			ID:     strings.TrimSpace(record[4]),
		})
	}
	return specs, skipped, nil
}

// ReadSpecsFile opens path and parses it with ReadSpecs.
func ReadSpecsFile(path string) ([]card.Spec, []Skipped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeResourceNotFound, err, "open card sheet")
	}
	defer f.Close()
	return ReadSpecs(f)
}

func rejectReason(record []string) string {
	if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
		return "empty row"
	}
	if len(record) < Columns {
		return fmt.Sprintf("expected %d columns, got %d", Columns, len(record))
	}
	if strings.HasPrefix(record[0], commentPrefix) {
		return "comment"
	}
	for i, v := range record[:Columns] {
		if strings.TrimSpace(v) == "" {
			return fmt.Sprintf("column %d is empty", i+1)
		}
	}
	return ""
}
