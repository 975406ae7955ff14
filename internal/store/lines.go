package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"github.com/deloro-project/rocc-pipelines/dbopen"
)

// Line is one transcribed line annotation.
type Line struct {
	ID           string
	CollectionID string
	Text         string
	Year         *int // nil when the collection has no usable date
}

// ScanLines streams every line annotation to fn. limit > 0 caps the number
// of lines. An error returned by fn stops the scan and is returned as is.
//
// Each line is emitted once and dated with its collection's year as
// returned by CollectionYears, so a line and the transcription of its
// collection always share a period. The collection years are read before
// the line query is opened.
func (s *Store) ScanLines(ctx context.Context, limit int, fn func(Line) error) error {
	years, err := s.CollectionYears(ctx)
	if err != nil {
		return err
	}
	return s.scanLines(ctx, limit, years, fn)
}

func (s *Store) scanLines(ctx context.Context, limit int, years map[string]*int, fn func(Line) error) (err error) {
	query := s.cfg.LinesQuery
	if limit > 0 {
		query = fmt.Sprintf("SELECT * FROM (%s) lines LIMIT %d", query, limit)
	}

	rows, err := dbopen.Query(ctx, s.DB, query)
	if err != nil {
		return fmt.Errorf("store: query lines: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("store: close lines: %w", cerr)
		}
	}()

	for rows.Next() {
		var id, coll, text sql.NullString
		if err := rows.Scan(&id, &coll, &text); err != nil {
			return fmt.Errorf("store: scan line: %w", err)
		}
		l := Line{
			ID:           id.String,
			CollectionID: coll.String,
			Text:         text.String,
			Year:         years[coll.String],
		}
		if err := fn(l); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: iterate lines: %w", err)
	}
	return nil
}

// CollectionYears returns the publishing year of every page collection.
// A collection with several publishing records keeps its earliest year.
func (s *Store) CollectionYears(ctx context.Context) (years map[string]*int, err error) {
	rows, err := dbopen.Query(ctx, s.DB, s.cfg.CollectionsQuery)
	if err != nil {
		return nil, fmt.Errorf("store: query collections: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("store: close collections: %w", cerr)
		}
	}()

	years = make(map[string]*int)
	for rows.Next() {
		var id, year sql.NullString
		if err := rows.Scan(&id, &year); err != nil {
			return nil, fmt.Errorf("store: scan collection: %w", err)
		}
		y := ParseYear(year.String)
		prev, seen := years[id.String]
		if !seen || (y != nil && (prev == nil || *y < *prev)) {
			years[id.String] = y
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate collections: %w", err)
	}
	return years, nil
}

var yearRe = regexp.MustCompile(`(?:^|\D)(\d{3,4})(?:\D|$)`)

// ParseYear extracts the first standalone run of three or four digits from
// a publishing year value such as "1742", "c. 1742", "1742-1745" or
// "1742-03-01T00:00:00Z". Anything else is unknown (nil).
func ParseYear(s string) *int {
	m := yearRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &y
}
