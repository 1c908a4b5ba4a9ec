package domain

import (
	"fmt"
	"strings"
)

// Source identifies where a job listing came from
type Source string

const (
	SourceAdzuna  Source = "adzuna"
	SourceJSearch Source = "jsearch"
	SourceGoogle  Source = "google"
	SourceReed    Source = "reed"
	SourceManual  Source = "manual"
)

// Sources lists every known source in declaration order
var Sources = []Source{SourceAdzuna, SourceJSearch, SourceGoogle, SourceReed, SourceManual}

// ParseSource validates a source tag
func ParseSource(s string) (Source, error) {
	v := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sources {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

func (s Source) Valid() bool {
	_, err := ParseSource(string(s))
	return err == nil
}
