package storage

import (
	"fmt"

	"github.com/Leiguo924/landsat-dl/internal/model"
)

// ObjectKey locates a mirrored product file in the bucket.
type ObjectKey struct {
	Dataset  model.Dataset
	PathRow  string // WRS-2 path and row, e.g. 042034
	Filename string // server-supplied filename
}

func (k ObjectKey) Key() string {
	return fmt.Sprintf("landsat/%s/%s/%s", k.Dataset, k.PathRow, k.Filename)
}
