// Package batch exports simulation files from tables of leaf pair openings
// instead of the interactive editor.
package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"custommlc/internal/models"
)

// ErrMalformedRow is returned for rows that are not two numbers
var ErrMalformedRow = errors.New("row must hold two numbers")

// ReadTable parses whitespace separated rows of two openings in cm. Blank
// lines and text after '#' are ignored.
func ReadTable(r io.Reader) ([]models.LeafPairOpening, error) {
	var openings []models.LeafPairOpening

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: %w, got %d values", line, ErrMalformedRow, len(fields))
		}

		var values [2]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %v", line, ErrMalformedRow, err)
			}
			values[i] = v
		}

		lo, hi := models.LeafPairOpening{Left: values[0], Right: values[1]}.Sorted()
		openings = append(openings, models.LeafPairOpening{Left: lo, Right: hi})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	return openings, nil
}

// LoadTable reads the table at path. A missing file is reported with an
// error matching os.ErrNotExist.
func LoadTable(path string) ([]models.LeafPairOpening, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTable(f)
}

// WriteTable writes openings in the format ReadTable accepts
func WriteTable(w io.Writer, openings []models.LeafPairOpening) error {
	bw := bufio.NewWriter(w)
	for _, o := range openings {
		_, err := fmt.Fprintf(bw, "%s %s\n",
			strconv.FormatFloat(o.Left, 'f', -1, 64),
			strconv.FormatFloat(o.Right, 'f', -1, 64))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveTable writes openings to path
func SaveTable(path string, openings []models.LeafPairOpening) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, openings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
