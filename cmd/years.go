package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var errInvalidYears = errors.New("invalid year range")

// parseYearRange parses a span like "2015-2024"
func parseYearRange(span string) (int, int, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(span), "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not in the form FROM-TO", errInvalidYears, span)
	}

	fromYear, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", errInvalidYears, span, err)
	}
	toYear, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", errInvalidYears, span, err)
	}
	if fromYear > toYear {
		return 0, 0, fmt.Errorf("%w: %d is after %d", errInvalidYears, fromYear, toYear)
	}
	return fromYear, toYear, nil
}

// resolveYearRange returns the parsed span, or the default range with a
// warning when the span is empty or malformed
func resolveYearRange(span string, defaultFrom, defaultTo int) (int, int) {
	if span == "" {
		return defaultFrom, defaultTo
	}

	from, to, err := parseYearRange(span)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"from_year": defaultFrom,
			"to_year":   defaultTo,
		}).Warn("Invalid --years value, using the default range")
		return defaultFrom, defaultTo
	}
	return from, to
}
