package dashctl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/okian/crossdash/internal/domain/model"
)

// Generated value ranges.
const (
	maxSuicides        = 10000
	meanSuicides       = 400.0
	minPopulation      = 10_000
	populationRange    = 5_000_000
	invalidNumberField = "n/a"
	pcgStream          = 0x9e3779b97f4a7c15
)

var countryCodes = []string{
	"ALB", "ARG", "ARM", "AUS", "AUT", "BEL", "BRA", "CAN", "CHL", "COL",
	"CZE", "DEU", "ESP", "FIN", "FRA", "GBR", "HUN", "JPN", "MEX", "USA",
}

// ErrBadGenConfig is returned for a dataset description that cannot be generated.
var ErrBadGenConfig = errors.New("invalid dataset config")

// countryCode returns the i-th country uid.
func countryCode(i int) string {
	if i < len(countryCodes) {
		return countryCodes[i]
	}
	return fmt.Sprintf("C%03d", i)
}

func (g *GenConfig) validate() error {
	switch {
	case g.Rows < 0:
		return fmt.Errorf("%w: rows must not be negative", ErrBadGenConfig)
	case g.Countries <= 0:
		return fmt.Errorf("%w: countries must be positive", ErrBadGenConfig)
	case g.YearTo < g.YearFrom:
		return fmt.Errorf("%w: year range %d..%d is empty", ErrBadGenConfig, g.YearFrom, g.YearTo)
	case g.Invalid < 0 || g.Invalid > 1:
		return fmt.Errorf("%w: invalid share must be in [0, 1]", ErrBadGenConfig)
	}
	return nil
}

// Generate writes a synthetic uid,sex,year,suicides,population dataset to w.
// The same config always produces the same bytes. It returns the number of
// rows carrying an unparseable number.
func Generate(w io.Writer, cfg GenConfig) (int, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}
	r := rand.New(rand.NewPCG(cfg.Seed, pcgStream))
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"uid", "sex", "year", "suicides", "population"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	years := cfg.YearTo - cfg.YearFrom + 1
	invalid := 0
	for i := 0; i < cfg.Rows; i++ {
		suicides := strconv.Itoa(int(math.Min(r.ExpFloat64()*meanSuicides, maxSuicides)))
		if cfg.Invalid > 0 && r.Float64() < cfg.Invalid {
			suicides = invalidNumberField
			invalid++
		}
		row := []string{
			countryCode(r.IntN(cfg.Countries)),
			model.Sexes[r.IntN(len(model.Sexes))],
			strconv.Itoa(cfg.YearFrom + r.IntN(years)),
			suicides,
			strconv.Itoa(minPopulation + r.IntN(populationRange)),
		}
		if err := cw.Write(row); err != nil {
			return invalid, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return invalid, fmt.Errorf("flush: %w", err)
	}
	return invalid, nil
}
