// Package source reads the weight fragment and the character catalog from
// disk and keeps the current snapshot of both.
package source

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xtding233/gacha-rates/internal/gacha"
)

// Paths locates the two source files.
type Paths struct {
	Weights string // text holding a {"weights": {...}} fragment
	Catalog string // JSON or YAML character list
}

// catalogFile mirrors the catalog payload: {"characters": [...]}.
type catalogFile struct {
	Characters []gacha.Character `yaml:"characters"`
}

// Loader reads sources from disk. Missing files are "no data", not errors.
type Loader struct {
	paths  Paths
	logger *zap.Logger
}

// NewLoader creates a loader; a nil logger discards output.
func NewLoader(paths Paths, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{paths: paths, logger: logger}
}

// Paths returns the configured file locations.
func (l *Loader) Paths() Paths { return l.paths }

// LoadWeights extracts the weight table from the weights file. An absent
// file or a fragment without usable pairs gives an empty table.
func (l *Loader) LoadWeights() (gacha.WeightTable, error) {
	b, ok, err := readFile(l.paths.Weights)
	if err != nil {
		return gacha.WeightTable{}, fmt.Errorf("read weights: %w", err)
	}
	if !ok {
		l.logger.Warn("weights file not found", zap.String("path", l.paths.Weights))
		return gacha.WeightTable{}, nil
	}
	m := gacha.ExtractWeights(string(b))
	if len(m) == 0 {
		l.logger.Warn("weights fragment has no usable entries", zap.String("path", l.paths.Weights))
	}
	tbl := gacha.NewWeightTable(gacha.EntriesFromMap(m))
	l.logger.Debug("weights loaded",
		zap.String("path", l.paths.Weights),
		zap.Int("rarities", tbl.Len()),
		zap.Float64("total_weight", tbl.TotalWeight()),
	)
	return tbl, nil
}

// LoadCatalog decodes the catalog file. Both {"characters": [...]} and a
// bare list are accepted; JSON input is read as YAML.
func (l *Loader) LoadCatalog() (gacha.Catalog, error) {
	b, ok, err := readFile(l.paths.Catalog)
	if err != nil {
		return gacha.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	if !ok {
		l.logger.Warn("catalog file not found", zap.String("path", l.paths.Catalog))
		return gacha.Catalog{}, nil
	}
	records, err := decodeCatalog(b)
	if err != nil {
		return gacha.Catalog{}, fmt.Errorf("decode catalog %s: %w", l.paths.Catalog, err)
	}
	cat, err := gacha.NewCatalog(records)
	if err != nil {
		return gacha.Catalog{}, fmt.Errorf("build catalog %s: %w", l.paths.Catalog, err)
	}
	l.logger.Debug("catalog loaded",
		zap.String("path", l.paths.Catalog),
		zap.Int("characters", cat.Len()),
	)
	return cat, nil
}

// Load reads both sources into a snapshot.
func (l *Loader) Load() (Snapshot, error) {
	w, err := l.LoadWeights()
	if err != nil {
		return Snapshot{}, err
	}
	c, err := l.LoadCatalog()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Weights: w, Catalog: c}, nil
}

func decodeCatalog(b []byte) ([]gacha.Character, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []gacha.Character
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case yaml.MappingNode:
		var f catalogFile
		if err := root.Decode(&f); err != nil {
			return nil, err
		}
		return f.Characters, nil
	default:
		return nil, errors.New("catalog must be a list or an object with a characters list")
	}
}

// readFile reports ok=false for a missing file.
func readFile(path string) ([]byte, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}
