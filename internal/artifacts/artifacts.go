// Package artifacts loads the read-only model artifacts used to build feature vectors:
// the amenity category catalog, the model's schema columns, the land-use categories and
// the epoch reference date.
package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"landprice_service/internal/config"
	"landprice_service/internal/domain/model"
)

const dateLayout = "2006-01-02"

// Artifacts is constructed once at startup and never mutated afterwards.
type Artifacts struct {
	categories []model.AmenityCategory
	columns    []string
	landTypes  []model.LandType
	epoch      time.Time
}

type catalogFile struct {
	Categories []model.AmenityCategory `json:"categories" yaml:"categories"`
}

type columnsFile struct {
	DataColumns []string `json:"data_columns" yaml:"data_columns"`
	EpochDate   string   `json:"epoch_date" yaml:"epoch_date"`
}

type landTypesFile struct {
	LandTypes []model.LandType `json:"land_types" yaml:"land_types"`
}

// Load reads all artifact files from cfg.Dir.
func Load(cfg config.ArtifactsConfig) (*Artifacts, error) {
	var catalog catalogFile
	if err := decodeFile(filepath.Join(cfg.Dir, cfg.CatalogFile), &catalog); err != nil {
		return nil, eris.Wrap(err, "artifacts: load category catalog")
	}

	var columns columnsFile
	if err := decodeFile(filepath.Join(cfg.Dir, cfg.ColumnsFile), &columns); err != nil {
		return nil, eris.Wrap(err, "artifacts: load schema columns")
	}

	var landTypes landTypesFile
	if err := decodeFile(filepath.Join(cfg.Dir, cfg.LandTypesFile), &landTypes); err != nil {
		return nil, eris.Wrap(err, "artifacts: load land types")
	}

	epoch, err := time.Parse(dateLayout, strings.TrimSpace(columns.EpochDate))
	if err != nil {
		return nil, eris.Wrapf(err, "artifacts: invalid epoch_date %q", columns.EpochDate)
	}

	return New(catalog.Categories, columns.DataColumns, landTypes.LandTypes, epoch)
}

// New validates and normalizes artifacts. Missing feature keys and OSM filters get defaults.
func New(categories []model.AmenityCategory, columns []string, landTypes []model.LandType, epoch time.Time) (*Artifacts, error) {
	if len(categories) == 0 {
		return nil, eris.New("artifacts: category catalog is empty")
	}
	if len(columns) == 0 {
		return nil, eris.New("artifacts: schema has no columns")
	}
	if len(landTypes) == 0 {
		return nil, eris.New("artifacts: no land types declared")
	}

	a := &Artifacts{
		categories: make([]model.AmenityCategory, 0, len(categories)),
		columns:    make([]string, 0, len(columns)),
		landTypes:  make([]model.LandType, 0, len(landTypes)),
		epoch:      time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 0, 0, 0, 0, time.UTC),
	}

	ids := make(map[string]struct{}, len(categories))
	keys := make(map[string]struct{}, 2*len(categories))
	for _, c := range categories {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, eris.New("artifacts: category with empty id")
		}
		if _, dup := ids[c.ID]; dup {
			return nil, eris.Errorf("artifacts: duplicate category %q", c.ID)
		}
		ids[c.ID] = struct{}{}

		if c.CountKey == "" {
			c.CountKey = c.ID + "_count"
		}
		if c.DistanceKey == "" {
			c.DistanceKey = c.ID + "_mdist"
		}
		if c.PlaceType == "" {
			c.PlaceType = c.ID
		}
		if c.OSMFilter == "" {
			c.OSMFilter = `["amenity"="` + c.ID + `"]`
		}
		for _, k := range []string{c.CountKey, c.DistanceKey} {
			if _, dup := keys[k]; dup {
				return nil, eris.Errorf("artifacts: duplicate feature key %q", k)
			}
			keys[k] = struct{}{}
		}
		a.categories = append(a.categories, c)
	}

	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, eris.New("artifacts: empty schema column")
		}
		if _, dup := seen[col]; dup {
			return nil, eris.Errorf("artifacts: duplicate schema column %q", col)
		}
		seen[col] = struct{}{}
		a.columns = append(a.columns, col)
	}

	for _, lt := range landTypes {
		lt.Name = strings.TrimSpace(lt.Name)
		if lt.Name == "" {
			return nil, eris.New("artifacts: land type with empty name")
		}
		if lt.Column == "" {
			lt.Column = "land_type_" + strings.ToLower(strings.ReplaceAll(lt.Name, " ", "_"))
		}
		a.landTypes = append(a.landTypes, lt)
	}

	return a, nil
}

// Categories returns the amenity categories in catalog order.
func (a *Artifacts) Categories() []model.AmenityCategory {
	out := make([]model.AmenityCategory, len(a.categories))
	copy(out, a.categories)
	return out
}

// Columns returns the model's schema columns in order.
func (a *Artifacts) Columns() []string {
	out := make([]string, len(a.columns))
	copy(out, a.columns)
	return out
}

func (a *Artifacts) LandTypes() []model.LandType {
	out := make([]model.LandType, len(a.landTypes))
	copy(out, a.landTypes)
	return out
}

// Epoch is the earliest date of the training corpus, at UTC midnight.
func (a *Artifacts) Epoch() time.Time {
	return a.epoch
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return eris.Wrapf(err, "parse %s", path)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return eris.Wrapf(err, "parse %s", path)
		}
	}
	return nil
}
