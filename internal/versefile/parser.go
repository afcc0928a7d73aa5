// Package versefile parses line-oriented passage files for bulk import.
//
// Format, one passage per line:
//
//	reference | passage text [| keyword, keyword, ...]
//
// Blank lines and lines starting with '#' are skipped. Malformed lines are
// reported with their line number but do not abort the rest of the file.
package versefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Entry is one parsed passage line.
type Entry struct {
	Reference string
	Text      string
	Keywords  []string
}

// LineError records a line that could not be parsed.
type LineError struct {
	Line int
	Msg  string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads passage lines from r.
func Parse(r io.Reader) ([]Entry, []LineError, error) {
	var entries []Entry
	var lineErrs []LineError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB line buffer

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			lineErrs = append(lineErrs, LineError{Line: lineNo, Msg: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "read passage file")
	}

	return entries, lineErrs, nil
}

// ParseFile opens and parses a passage file.
func ParseFile(path string) ([]Entry, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open passage file")
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string) (Entry, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 2 {
		return Entry{}, errors.New("expected 'reference | text'")
	}

	ref := strings.TrimSpace(fields[0])
	text := strings.TrimSpace(fields[1])
	if ref == "" {
		return Entry{}, errors.New("empty reference")
	}
	if text == "" {
		return Entry{}, errors.New("empty passage text")
	}

	entry := Entry{Reference: ref, Text: text}
	if len(fields) >= 3 {
		for _, kw := range strings.Split(fields[2], ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				entry.Keywords = append(entry.Keywords, kw)
			}
		}
	}
	return entry, nil
}
