package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// numericColumns are stored as REAL; every other known column is TEXT.
var numericColumns = map[string]bool{
	"WRank": true, "LRank": true, "WPts": true, "LPts": true, "Best of": true,
	"W1": true, "L1": true, "W2": true, "L2": true, "W3": true, "L3": true,
	"W4": true, "L4": true, "W5": true, "L5": true,
	"Wsets": true, "Lsets": true,
}

// knownColumns is the whitelist of tennis-data.co.uk columns kept on import.
// Header cells are matched case-insensitively; anything else (betting odds,
// free-form extras) is dropped.
var knownColumns = []string{
	"Location", "Tournament", "Date", "Series", "Level", "Category", "Tier",
	"Court", "Surface", "Round", "Best of", "Winner", "Loser",
	"WRank", "LRank", "WPts", "LPts",
	"W1", "L1", "W2", "L2", "W3", "L3", "W4", "L4", "W5", "L5",
	"Wsets", "Lsets", "Comment",
}

// ImportCSV replaces the match table of src with the rows of a tennis-data
// style CSV file. It returns the number of rows written.
func (a *Accessor) ImportCSV(ctx context.Context, src model.Source, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	type colMap struct {
		name string
		idx  int
	}
	canon := make(map[string]string, len(knownColumns))
	for _, c := range knownColumns {
		canon[strings.ToLower(c)] = c
	}
	var keep []colMap
	seen := make(map[string]bool)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		name, ok := canon[strings.ToLower(h)]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		keep = append(keep, colMap{name: name, idx: i})
	}
	if !seen["Winner"] || !seen["Loser"] {
		return 0, fmt.Errorf("csv header lacks Winner/Loser columns")
	}

	db, err := a.openWrite(src)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	defs := make([]string, len(keep))
	quoted := make([]string, len(keep))
	for i, c := range keep {
		typ := "TEXT"
		if numericColumns[c.name] {
			typ = "REAL"
		}
		quoted[i] = quoteIdent(c.name)
		defs[i] = quoted[i] + " " + typ
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(tableName)); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(quoted, ", "), placeholders(len(keep))))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if blankRecord(rec) {
			continue
		}
		args := make([]interface{}, len(keep))
		for i, c := range keep {
			cell := ""
			if c.idx < len(rec) {
				cell = strings.TrimSpace(rec[c.idx])
			}
			args[i] = cellValue(c.name, cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert csv line %d: %w", line, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	a.Invalidate(src)
	a.log.Info().Str("source", src.String()).Int("rows", n).Msg("import complete")
	return n, nil
}

// cellValue converts a CSV cell into a column value. Empty cells and
// non-numeric values in numeric columns become NULL.
func cellValue(col, cell string) interface{} {
	if cell == "" {
		return nil
	}
	if !numericColumns[col] {
		return cell
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	return f
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
