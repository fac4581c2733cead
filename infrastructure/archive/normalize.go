package archive

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"lottogen/domain/entities"
)

// ErrUnrecognizedLayout is returned when no strategy finds draws in a table
var ErrUnrecognizedLayout = errors.New("unrecognized archive layout")

var digitsPattern = regexp.MustCompile(`\d+`)

type normalizeStrategy func(rows [][]string, year int, source string) []*entities.Draw

// NormalizeDraws extracts draws from a decoded table. Archives change layout
// across years, so three strategies are tried in order and the first one that
// yields at least one draw wins:
//
//   - six columns holding one ball each
//   - a single text column holding the whole combination
//   - every ball-like value of a row, in column order
func NormalizeDraws(rows [][]string, year int, source string) ([]*entities.Draw, error) {
	for _, strategy := range []normalizeStrategy{fromBallColumns, fromTextColumn, fromRowValues} {
		if draws := strategy(rows, year, source); len(draws) > 0 {
			return draws, nil
		}
	}
	return nil, ErrUnrecognizedLayout
}

// fromBallColumns reads six columns whose values are all integers in range,
// preferring six adjacent ones so a leading draw counter is not mistaken for a ball.
// The header row and rows with a missing ball are skipped.
func fromBallColumns(rows [][]string, year int, source string) []*entities.Draw {
	columns := pickBallColumns(ballColumns(rows))
	if columns == nil {
		return nil
	}

	var draws []*entities.Draw
	for _, row := range rows {
		numbers := make([]int, 0, entities.NumbersPerDraw)
		for _, c := range columns {
			if c >= len(row) {
				break
			}
			n, ok := parseInteger(row[c])
			if !ok || !entities.InRange(n) {
				break
			}
			numbers = append(numbers, n)
		}
		if draw, err := entities.NewDraw(numbers, year, source); err == nil {
			draws = append(draws, draw)
		}
	}
	return draws
}

func pickBallColumns(columns []int) []int {
	if len(columns) < entities.NumbersPerDraw {
		return nil
	}
	for start := 0; start+entities.NumbersPerDraw <= len(columns); start++ {
		window := columns[start : start+entities.NumbersPerDraw]
		if window[len(window)-1]-window[0] == entities.NumbersPerDraw-1 {
			return window
		}
	}
	return columns[:entities.NumbersPerDraw]
}

func ballColumns(rows [][]string) []int {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var columns []int
	for c := 0; c < width; c++ {
		values, valid := 0, true
		for i, row := range rows {
			if c >= len(row) || row[c] == "" {
				continue
			}
			n, ok := parseInteger(row[c])
			if !ok {
				if i == 0 {
					continue // header
				}
				valid = false
				break
			}
			if !entities.InRange(n) {
				valid = false
				break
			}
			values++
		}
		if valid && values > 0 {
			columns = append(columns, c)
		}
	}
	return columns
}

// fromTextColumn scans columns left to right for cells carrying a whole combination
func fromTextColumn(rows [][]string, year int, source string) []*entities.Draw {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	for c := 0; c < width; c++ {
		var draws []*entities.Draw
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			numbers := numbersInText(row[c])
			if len(numbers) < entities.NumbersPerDraw {
				continue
			}
			if draw, err := entities.NewDraw(numbers[:entities.NumbersPerDraw], year, source); err == nil {
				draws = append(draws, draw)
			}
		}
		if len(draws) > 0 {
			return draws
		}
	}
	return nil
}

// fromRowValues gathers in-range numbers across a row. A plain numeric cell adds
// one value; a text cell only contributes when it holds a whole combination,
// which keeps dates and draw counters out.
func fromRowValues(rows [][]string, year int, source string) []*entities.Draw {
	var draws []*entities.Draw
	for _, row := range rows {
		var bag []int
		for _, cell := range row {
			if n, ok := parseInteger(cell); ok {
				if entities.InRange(n) {
					bag = append(bag, n)
				}
				continue
			}
			if numbers := numbersInText(cell); len(numbers) >= entities.NumbersPerDraw {
				bag = append(bag, numbers...)
			}
		}
		if len(bag) < entities.NumbersPerDraw {
			continue
		}
		if draw, err := entities.NewDraw(bag[:entities.NumbersPerDraw], year, source); err == nil {
			draws = append(draws, draw)
		}
	}
	return draws
}

// numbersInText returns every in-range integer found in the text, in order
func numbersInText(text string) []int {
	var numbers []int
	for _, token := range digitsPattern.FindAllString(text, -1) {
		n, err := strconv.Atoi(token)
		if err != nil || !entities.InRange(n) {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// parseInteger accepts "12" as well as spreadsheet renderings like "12.0"
func parseInteger(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
