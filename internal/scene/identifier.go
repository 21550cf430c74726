package scene

import (
	"strconv"
	"strings"
	"time"
)

// Form is the structural shape of an identifier.
type Form int

const (
	Unrecognized Form = iota
	ProductForm
	SceneForm
)

const (
	productIDLength = 40
	sceneIDLength   = 21
	productFields   = 7
)

func (f Form) String() string {
	switch f {
	case ProductForm:
		return "product"
	case SceneForm:
		return "scene"
	default:
		return "unrecognized"
	}
}

// Metadata holds the fields encoded in a scene or product identifier.
type Metadata struct {
	Identifier string
	Form       Form
	Sensor     string
	Satellite  int
	Path       string
	Row        string

	// Product form only.
	ProcessingLevel    string
	AcquisitionDate    time.Time
	ProcessingDate     time.Time
	CollectionNumber   string
	CollectionCategory string

	// Scene form only. AcquisitionDate is derived from Year and JulianDay.
	Year           int
	JulianDay      int
	GroundStation  string
	ArchiveVersion string
}

// Classify tells product identifiers (LC08_L1TP_042034_20130101_20170310_01_T1)
// apart from legacy scene identifiers (LC80420342013001LGN01).
func Classify(id string) Form {
	switch {
	case len(id) == productIDLength && strings.HasPrefix(id, "L"):
		return ProductForm
	case len(id) == sceneIDLength && strings.HasPrefix(id, "L"):
		return SceneForm
	default:
		return Unrecognized
	}
}

// ParseProduct extracts metadata from a product identifier.
func ParseProduct(id string) (Metadata, error) {
	elements := strings.Split(id, "_")
	if len(elements) != productFields {
		return Metadata{}, &ParseError{ID: id, Reason: "expected 7 underscore-separated fields"}
	}
	if len(elements[0]) != 4 {
		return Metadata{}, &ParseError{ID: id, Reason: "sensor/satellite field must be 4 characters"}
	}
	if len(elements[2]) != 6 {
		return Metadata{}, &ParseError{ID: id, Reason: "path/row field must be 6 characters"}
	}

	satellite, err := strconv.Atoi(elements[0][2:4])
	if err != nil {
		return Metadata{}, &ParseError{ID: id, Reason: "satellite is not numeric"}
	}
	acquired, err := time.Parse("20060102", elements[3])
	if err != nil {
		return Metadata{}, &ParseError{ID: id, Reason: "invalid acquisition date"}
	}
	processed, err := time.Parse("20060102", elements[4])
	if err != nil {
		return Metadata{}, &ParseError{ID: id, Reason: "invalid processing date"}
	}

	return Metadata{
		Identifier:         id,
		Form:               ProductForm,
		Sensor:             elements[0][1:2],
		Satellite:          satellite,
		ProcessingLevel:    elements[1],
		Path:               elements[2][0:3],
		Row:                elements[2][3:6],
		AcquisitionDate:    acquired,
		ProcessingDate:     processed,
		CollectionNumber:   elements[5],
		CollectionCategory: elements[6],
	}, nil
}

// ParseScene extracts metadata from a legacy 21-character scene identifier.
func ParseScene(id string) (Metadata, error) {
	if len(id) != sceneIDLength {
		return Metadata{}, &ParseError{ID: id, Reason: "scene identifier must be 21 characters"}
	}

	satellite, err := strconv.Atoi(id[2:3])
	if err != nil {
		return Metadata{}, &ParseError{ID: id, Reason: "satellite is not numeric"}
	}
	year, err := strconv.Atoi(id[9:13])
	if err != nil {
		return Metadata{}, &ParseError{ID: id, Reason: "year is not numeric"}
	}
	day, err := strconv.Atoi(id[13:16])
	if err != nil || day < 1 || day > 366 {
		return Metadata{}, &ParseError{ID: id, Reason: "invalid julian day"}
	}

	return Metadata{
		Identifier:      id,
		Form:            SceneForm,
		Sensor:          id[1:2],
		Satellite:       satellite,
		Path:            id[3:6],
		Row:             id[6:9],
		Year:            year,
		JulianDay:       day,
		AcquisitionDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1),
		GroundStation:   id[16:19],
		ArchiveVersion:  id[19:21],
	}, nil
}
