package bulkfile

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salescrm/internal/phone"
)

func newTestParser(limits Limits) *Parser {
	return NewParser(phone.New("91"), limits)
}

func TestParseLineDelimited(t *testing.T) {
	p := newTestParser(Limits{})

	data := []byte("9876543210\n9876543210\nbad\n9123456780\n")
	res, err := p.Parse(data, "leads.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{"919876543210", "919123456780"}, res.Candidates)
	assert.Equal(t, 1, res.SelfDeduped)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "bad", res.Rejected[0].Raw)
	assert.Equal(t, ReasonInvalidLength, res.Rejected[0].Reason)
}

func TestParseRejectReasons(t *testing.T) {
	p := newTestParser(Limits{})

	// a wordy cell is a malformed number; only a genuinely blank cell is
	// reported as empty
	data := []byte("9876543210\nbad\nno digits here\n,blank first cell\n12345\n")
	res, err := p.Parse(data, "leads.csv")
	require.NoError(t, err)

	require.Len(t, res.Rejected, 4)
	byRaw := map[string]string{}
	for _, r := range res.Rejected {
		byRaw[r.Raw] = r.Reason
	}
	assert.Equal(t, ReasonInvalidLength, byRaw["bad"])
	assert.Equal(t, ReasonInvalidLength, byRaw["no digits here"])
	assert.Equal(t, ReasonEmpty, byRaw[""])
	assert.Equal(t, ReasonInvalidLength, byRaw["12345"])
}

func TestParseCSVWithHeader(t *testing.T) {
	p := newTestParser(Limits{})

	data := []byte("phone,name\n9876543210,Asha\n\"9123456780\",Ravi\n,missing\n")
	res, err := p.Parse(data, "leads.csv")
	require.NoError(t, err)

	// header skipped silently, not reported as a bad row
	assert.Equal(t, []string{"919876543210", "919123456780"}, res.Candidates)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, ReasonEmpty, res.Rejected[0].Reason)
}

func TestParseKeepsFirstSeenOrder(t *testing.T) {
	p := newTestParser(Limits{})

	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "98765432%02d\n", i)
	}
	res, err := p.Parse([]byte(sb.String()), "")
	require.NoError(t, err)

	require.Len(t, res.Candidates, 10)
	for i, key := range res.Candidates {
		assert.Equal(t, fmt.Sprintf("9198765432%02d", i), key)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "phone"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "9876543210"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "ignored"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "+91 91234 56780"))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", "nope"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	p := newTestParser(Limits{})

	// detected from content even without a hint
	res, err := p.Parse(buf.Bytes(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"919876543210", "919123456780"}, res.Candidates)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "nope", res.Rejected[0].Raw)
}

func TestParseFileTooLarge(t *testing.T) {
	p := newTestParser(Limits{MaxFileBytes: 16})

	_, err := p.Parse(bytes.Repeat([]byte("9"), 17), "")
	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 17, tooLarge.Size)
	assert.Equal(t, 16, tooLarge.Max)
}

func TestParseTooManyCandidates(t *testing.T) {
	p := newTestParser(Limits{MaxCandidates: 5})

	var sb strings.Builder
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&sb, "98765432%02d\n", i)
	}
	_, err := p.Parse([]byte(sb.String()), "")
	var tooMany *TooManyCandidatesError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 6, tooMany.Count)
	assert.Equal(t, 5, tooMany.Max)
}

func TestParseBlankLinesSkipped(t *testing.T) {
	p := newTestParser(Limits{})

	res, err := p.Parse([]byte("\n\n9876543210\r\n\r\n"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"919876543210"}, res.Candidates)
	assert.Empty(t, res.Rejected)
}
