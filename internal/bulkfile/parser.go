package bulkfile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"salescrm/internal/phone"
)

// Reject reasons reported back to the uploader.
const (
	ReasonEmpty         = "empty"
	ReasonInvalidLength = "invalid_length"
)

type RejectedRow struct {
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// Result of parsing one uploaded file. Candidates holds canonical phone
// keys in first-seen order with in-file duplicates already collapsed;
// SelfDeduped counts the collapsed rows.
type Result struct {
	Candidates  []string      `json:"candidates"`
	Rejected    []RejectedRow `json:"rejected"`
	SelfDeduped int           `json:"self_deduped"`
}

type TooLargeError struct {
	Size int
	Max  int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("bulkfile: file is %d bytes, limit is %d", e.Size, e.Max)
}

type TooManyCandidatesError struct {
	Count int
	Max   int
}

func (e *TooManyCandidatesError) Error() string {
	return fmt.Sprintf("bulkfile: file yields %d candidates, limit is %d", e.Count, e.Max)
}

const (
	DefaultMaxFileBytes  = 5 << 20
	DefaultMaxCandidates = 1000
)

// Limits bound the work a single upload can cause downstream.
type Limits struct {
	MaxFileBytes  int
	MaxCandidates int
}

// Parser extracts candidate phone keys from an uploaded blob of unknown
// tabular format: xlsx, CSV-ish delimited text, or one number per line.
type Parser struct {
	norm   phone.Normalizer
	limits Limits
}

func NewParser(norm phone.Normalizer, limits Limits) *Parser {
	if limits.MaxFileBytes <= 0 {
		limits.MaxFileBytes = DefaultMaxFileBytes
	}
	if limits.MaxCandidates <= 0 {
		limits.MaxCandidates = DefaultMaxCandidates
	}
	return &Parser{norm: norm, limits: limits}
}

// xlsx files are zip archives
var zipSignature = []byte{'P', 'K', 0x03, 0x04}

func isSpreadsheet(data []byte, hint string) bool {
	h := strings.ToLower(hint)
	if strings.HasSuffix(h, ".xlsx") || strings.Contains(h, "spreadsheet") {
		return true
	}
	return bytes.HasPrefix(data, zipSignature)
}

// Parse never aborts on a malformed row; failures are collected per row.
// It fails outright only on the size/count caps or an unreadable
// spreadsheet container.
func (p *Parser) Parse(data []byte, hint string) (*Result, error) {
	if len(data) > p.limits.MaxFileBytes {
		return nil, &TooLargeError{Size: len(data), Max: p.limits.MaxFileBytes}
	}

	var tokens []string
	var err error
	if isSpreadsheet(data, hint) {
		tokens, err = firstColumnXLSX(data)
		if err != nil {
			return nil, err
		}
	} else {
		tokens = firstColumnText(data)
	}

	res := &Result{}
	seen := make(map[string]struct{}, len(tokens))
	for i, tok := range tokens {
		key, nerr := p.norm.Normalize(tok)
		if nerr != nil {
			// a header row is expected to fail normalization; skip it
			// silently instead of reporting it as a bad row
			if i == 0 && looksLikeHeader(tok) {
				continue
			}
			res.Rejected = append(res.Rejected, RejectedRow{Raw: tok, Reason: rejectReason(nerr)})
			continue
		}
		if _, dup := seen[key]; dup {
			res.SelfDeduped++
			continue
		}
		seen[key] = struct{}{}
		res.Candidates = append(res.Candidates, key)
	}

	if len(res.Candidates) > p.limits.MaxCandidates {
		return nil, &TooManyCandidatesError{Count: len(res.Candidates), Max: p.limits.MaxCandidates}
	}
	return res, nil
}

func rejectReason(err error) string {
	if err == phone.ErrEmpty {
		return ReasonEmpty
	}
	return ReasonInvalidLength
}

func looksLikeHeader(tok string) bool {
	for _, r := range tok {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

// firstColumnText splits line-delimited or delimited tabular text and takes
// the first cell of every non-blank row.
func firstColumnText(data []byte) []string {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cell := line
		if idx := strings.IndexAny(line, ",;\t"); idx >= 0 {
			cell = line[:idx]
		}
		cell = strings.Trim(strings.TrimSpace(cell), `"'`)
		out = append(out, cell)
	}
	return out
}

// firstColumnXLSX reads the first column of the first sheet.
func firstColumnXLSX(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bulkfile: unable to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("bulkfile: unable to read sheet %q: %w", sheets[0], err)
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		out = append(out, cell)
	}
	return out, nil
}
