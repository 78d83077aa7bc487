package scorecache

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvHeader is the optional first row of a score file.
var csvHeader = []string{"frame", "neighbor", "score"}

// ReadCSV parses "frame,neighbor,score" rows. A header row matching those
// names is skipped; blank lines are ignored.
func ReadCSV(r io.Reader) ([]Score, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var scores []Score
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read scores: %w", err)
		}
		if line == 1 && isHeader(record) {
			continue
		}
		score, err := parseRecord(record)
		if err != nil {
			row, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("scores line %d: %w", row, err)
		}
		if err := score.Validate(); err != nil {
			row, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("scores line %d: %w", row, err)
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// WriteCSV writes scores with a header row.
func WriteCSV(w io.Writer, scores []Score) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, score := range scores {
		if err := writer.Write([]string{
			strconv.Itoa(score.Frame),
			strconv.Itoa(score.Neighbor),
			strconv.FormatFloat(score.Score, 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Import reads a score file and stores it under source. It returns the
// number of scores written.
func (s *Store) Import(ctx context.Context, source string, r io.Reader) (int, error) {
	scores, err := ReadCSV(r)
	if err != nil {
		return 0, err
	}
	if err := s.Put(ctx, source, scores); err != nil {
		return 0, err
	}
	return len(scores), nil
}

func isHeader(record []string) bool {
	for i, name := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(record[i]), name) {
			return false
		}
	}
	return true
}

func parseRecord(record []string) (Score, error) {
	frame, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return Score{}, fmt.Errorf("frame %q: %w", record[0], err)
	}
	neighbor, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return Score{}, fmt.Errorf("neighbor %q: %w", record[1], err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return Score{}, fmt.Errorf("score %q: %w", record[2], err)
	}
	return Score{Frame: frame, Neighbor: neighbor, Score: value}, nil
}
