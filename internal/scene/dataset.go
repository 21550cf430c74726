package scene

import (
	"fmt"
	"strings"

	"github.com/Leiguo924/landsat-dl/internal/model"
)

const (
	defaultCollection = "c2"
	defaultLevel      = "l1"
)

// Resolve maps parsed metadata to a canonical dataset name.
func Resolve(meta Metadata) (model.Dataset, error) {
	collection := defaultCollection
	if n := meta.CollectionNumber; n != "" {
		collection = "c" + n[len(n)-1:]
	}
	level := defaultLevel
	if l := meta.ProcessingLevel; len(l) >= 2 {
		level = strings.ToLower(l[:2])
	}
	return datasetName(meta.Satellite, collection, level)
}

func datasetName(satellite int, collection, level string) (model.Dataset, error) {
	var family model.Family
	switch {
	case satellite < 5:
		family = model.FamilyMSS
	case satellite == 5:
		family = model.FamilyTM
	case satellite == 7:
		family = model.FamilyETM
	case satellite == 8 || satellite == 9:
		family = model.FamilyOT
	default:
		return "", &UnsupportedSatelliteError{Satellite: satellite}
	}

	name := fmt.Sprintf("landsat_%s_%s", family, collection)
	if collection == "c2" {
		name += "_" + level
	}
	return model.Dataset(name), nil
}

// GuessMetadata parses id according to its shape.
func GuessMetadata(id string) (Metadata, error) {
	switch Classify(id) {
	case ProductForm:
		return ParseProduct(id)
	case SceneForm:
		return ParseScene(id)
	default:
		return Metadata{}, &UnresolvedIdentifierError{ID: id}
	}
}

// Guess infers the dataset and the WRS path/row of an identifier. Every
// identifier goes through here before it reaches the catalog.
func Guess(id string) (dataset model.Dataset, path, row string, err error) {
	meta, err := GuessMetadata(id)
	if err != nil {
		return "", "", "", err
	}
	dataset, err = Resolve(meta)
	if err != nil {
		return "", "", "", err
	}
	return dataset, meta.Path, meta.Row, nil
}
