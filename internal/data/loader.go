package data

import (
	"context"
	"errors"
	"fmt"

	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"
	"energy-multiplier/internal/schema"
)

// withSource names the table a schema error came from.
func withSource(err error, name string) error {
	var se *model.SchemaError
	if errors.As(err, &se) && se.Source == "" {
		se.Source = name
	}
	return err
}

// GroupTables splits price tables by resolution, in input order.
func GroupTables(tables []model.Table, year, regimeYear int) (hourly, quarter []model.Table, err error) {
	for _, t := range tables {
		res, err := Classify(t.Name, t.Headers, year, regimeYear)
		if err != nil {
			return nil, nil, err
		}
		if res == model.QuarterHour {
			quarter = append(quarter, t)
		} else {
			hourly = append(hourly, t)
		}
	}
	return hourly, quarter, nil
}

// BuildSeries concatenates tables of one resolution. Earlier tables win on
// duplicate keys. It returns nil for no tables.
func BuildSeries(tables []model.Table, res model.Resolution) (*prices.Series, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	b := prices.NewBuilder(res)
	for _, t := range tables {
		cols, err := schema.DetectPriceColumns(t.Headers, res)
		if err != nil {
			return nil, withSource(err, t.Name)
		}
		b.Add(t.Rows, cols)
	}
	s := b.Series()
	if s.Dropped() > 0 {
		logger.Warn("dropped unparseable price rows", "resolution", res.String(), "dropped", s.Dropped())
	}
	if s.Duplicates() > 0 {
		logger.Debug("ignored duplicate price rows", "resolution", res.String(), "duplicates", s.Duplicates())
	}
	return s, nil
}

// BuildSet builds the price set of year from already read tables. At least one
// hourly table is required.
func BuildSet(tables []model.Table, year, regimeYear int) (prices.Set, error) {
	hourlyTables, quarterTables, err := GroupTables(tables, year, regimeYear)
	if err != nil {
		return nil, err
	}
	if len(hourlyTables) == 0 {
		return nil, fmt.Errorf("%w %d: no hourly table among %d", model.ErrNoPriceFile, year, len(tables))
	}
	hourly, err := BuildSeries(hourlyTables, model.Hourly)
	if err != nil {
		return nil, err
	}
	quarter, err := BuildSeries(quarterTables, model.QuarterHour)
	if err != nil {
		return nil, err
	}
	return prices.ForYear(year, regimeYear, hourly, quarter), nil
}

// PriceLoader loads the price set of a year from a directory of price files,
// memoizing parsed series in a PriceCache.
type PriceLoader struct {
	dir        string
	regimeYear int
	cache      *PriceCache
}

func NewPriceLoader(dir string, regimeYear int, cache *PriceCache) *PriceLoader {
	return &PriceLoader{dir: dir, regimeYear: regimeYear, cache: cache}
}

func (l *PriceLoader) Dir() string { return l.dir }

// Load returns the price set for year. Files are read only on a cache miss.
func (l *PriceLoader) Load(ctx context.Context, year int) (prices.Set, error) {
	hKey := CacheKey{Year: year, Resolution: model.Hourly}
	qKey := CacheKey{Year: year, Resolution: model.QuarterHour}

	hourly, hok := l.cache.Get(hKey)
	quarter, qok := l.cache.Get(qKey)
	if hok && (qok || year < l.regimeYear) {
		return prices.ForYear(year, l.regimeYear, hourly, quarter), nil
	}

	files, err := DiscoverDir(l.dir, year, l.regimeYear)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w %d in %s", model.ErrNoPriceFile, year, l.dir)
	}

	tables := make([]model.Table, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := ReadTableFile(f.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded price file", "file", f.Name, "rows", len(t.Rows))
		tables = append(tables, t)
	}

	hourlyTables, quarterTables, err := GroupTables(tables, year, l.regimeYear)
	if err != nil {
		return nil, err
	}
	if len(hourlyTables) == 0 {
		return nil, fmt.Errorf("%w %d in %s: only quarter-hour files", model.ErrNoPriceFile, year, l.dir)
	}

	if !hok {
		s, err := BuildSeries(hourlyTables, model.Hourly)
		if err != nil {
			return nil, err
		}
		hourly = l.cache.Set(hKey, s)
	}
	if !qok && year >= l.regimeYear {
		s, err := BuildSeries(quarterTables, model.QuarterHour)
		if err != nil {
			return nil, err
		}
		quarter = l.cache.Set(qKey, s)
	}
	return prices.ForYear(year, l.regimeYear, hourly, quarter), nil
}
