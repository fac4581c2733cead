package archive

import (
	"fmt"
	"strings"
)

// Source describes where an archive document can be downloaded
type Source struct {
	Name        string
	URLTemplate string // Contains %d for the year when PerYear is set
	Referer     string
	PerYear     bool
}

// Lottologia serves one spreadsheet per year and is the primary source
var Lottologia = Source{
	Name:        "lottologia",
	URLTemplate: "https://www.lottologia.com/superenalotto/archivio-estrazioni/?as=XLS&year=%d",
	Referer:     "https://www.lottologia.com/superenalotto/archivio-estrazioni/",
	PerYear:     true,
}

// TuttoSuperEnalotto serves the current archive as a single document
var TuttoSuperEnalotto = Source{
	Name:        "tuttosuperenalotto",
	URLTemplate: "https://www.tuttosuperenalotto.it/download-superenalotto.asp?tfile=x&typed=90",
}

// URL returns the download address for the given year
func (s Source) URL(year int) string {
	if s.PerYear && strings.Contains(s.URLTemplate, "%d") {
		return fmt.Sprintf(s.URLTemplate, year)
	}
	return s.URLTemplate
}

// cacheKey identifies a downloaded document in the archive cache
func (s Source) cacheKey(year int) string {
	if !s.PerYear {
		return fmt.Sprintf("archive:%s:current", s.Name)
	}
	return fmt.Sprintf("archive:%s:%d", s.Name, year)
}
