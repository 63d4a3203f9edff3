package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"energy-multiplier/internal/model"
	"energy-multiplier/internal/schema"
)

// SourceFile is a price file associated with a year.
type SourceFile struct {
	Name string
	Path string
	// Resolution is zero when the file name carries no resolution marker and
	// the resolution must be inferred from the headers.
	Resolution model.Resolution
}

var tableExts = map[string]bool{".csv": true, ".txt": true, ".xlsx": true, ".xlsm": true}

// MatchesYear reports whether name refers to year, either as a bare number or
// as "Anno <year>".
func MatchesYear(name string, year int) bool {
	y := strconv.Itoa(year)
	return strings.Contains(name, y) || strings.Contains(strings.ToLower(name), "anno "+y)
}

// ResolutionFromName reads the "_15" and "_60" markers. Without a marker, years
// before regimeYear are hourly and later years are left to header inference.
func ResolutionFromName(name string, year, regimeYear int) model.Resolution {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	switch {
	case hasMarker(base, "_15"):
		return model.QuarterHour
	case hasMarker(base, "_60"):
		return model.Hourly
	case year < regimeYear:
		return model.Hourly
	default:
		return 0
	}
}

// hasMarker matches m when it is not followed by another digit, so "_150"
// and "_2015" are not quarter-hour markers.
func hasMarker(s, m string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], m)
		if j < 0 {
			return false
		}
		end := i + j + len(m)
		if end == len(s) || s[end] < '0' || s[end] > '9' {
			return true
		}
		i = end
	}
}

// Discover picks the price files of year among names, in name order.
func Discover(names []string, year, regimeYear int) []SourceFile {
	var out []SourceFile
	for _, n := range names {
		if !tableExts[strings.ToLower(filepath.Ext(n))] || !MatchesYear(n, year) {
			continue
		}
		out = append(out, SourceFile{
			Name:       n,
			Path:       n,
			Resolution: ResolutionFromName(n, year, regimeYear),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DiscoverDir runs Discover over the regular files of dir.
func DiscoverDir(dir string, year, regimeYear int) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list price directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	files := Discover(names, year, regimeYear)
	for i := range files {
		files[i].Path = filepath.Join(dir, files[i].Name)
	}
	return files, nil
}

// Classify settles the resolution of a read table: the file name marker when
// present, else the headers.
func Classify(name string, headers []string, year, regimeYear int) (model.Resolution, error) {
	if res := ResolutionFromName(name, year, regimeYear); res != 0 {
		return res, nil
	}
	res, err := schema.InferResolution(headers)
	if err != nil {
		return 0, withSource(err, name)
	}
	return res, nil
}
