package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timestampRegex = regexp.MustCompile(
	`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`,
)

// Parse reads SRT content as sequential blocks of
// index / "HH:MM:SS,mmm --> HH:MM:SS,mmm" / text lines. Malformed blocks are
// skipped and parsing continues; only a read failure is an error.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)

	var entries []Entry
	var block []string
	first := true

	flush := func() {
		if entry, ok := parseBlock(block); ok {
			entries = append(entries, entry)
		}
		block = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read SRT content: %w", err)
	}
	return entries, nil
}

// ParseString parses SRT content held in memory.
func ParseString(s string) ([]Entry, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses an SRT file from disk.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open SRT file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// parseBlock interprets one blank-line separated block. The leading index
// line is optional; a block without a valid timestamp line is rejected.
func parseBlock(lines []string) (Entry, bool) {
	if len(lines) == 0 {
		return Entry{}, false
	}

	var entry Entry
	i := 0

	if index, err := strconv.Atoi(strings.TrimSpace(lines[i])); err == nil {
		entry.Index = index
		i++
	}
	if i >= len(lines) {
		return Entry{}, false
	}

	matches := timestampRegex.FindStringSubmatch(lines[i])
	if len(matches) != 9 {
		return Entry{}, false
	}
	start, err := parseTimestamp(matches[1], matches[2], matches[3], matches[4])
	if err != nil {
		return Entry{}, false
	}
	end, err := parseTimestamp(matches[5], matches[6], matches[7], matches[8])
	if err != nil {
		return Entry{}, false
	}
	entry.Start = start
	entry.End = end
	i++

	if i >= len(lines) {
		return Entry{}, false
	}
	entry.Text = strings.Join(lines[i:], "\n")
	return entry, true
}

func parseTimestamp(hours, minutes, seconds, millis string) (time.Duration, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// Write serializes entries as SRT with 1-based sequential indices.
func Write(w io.Writer, entries []Entry) error {
	var sb strings.Builder
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatTimestamp(entry.Start),
			formatTimestamp(entry.End)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
