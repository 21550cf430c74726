package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leiguo924/landsat-dl/internal/model"
)

func TestAll_OLI(t *testing.T) {
	got := All(model.LandsatOTC2L1)

	require.Len(t, got, 14)
	assert.Equal(t, "B1.TIF", got[0])
	assert.Equal(t, "B11.TIF", got[10])
	assert.Equal(t, BandSet{"ANG.txt", "BQA.TIF", "MTL.txt"}, got[11:])
}

func TestAll_PerFamily(t *testing.T) {
	assert.Len(t, All(model.LandsatTMC2L1), 13)
	assert.Contains(t, All(model.LandsatTMC2L1), "GCP.txt")
	assert.Len(t, All(model.LandsatETMC2L2), 12)
	assert.Contains(t, All(model.LandsatETMC2L2), "B6_VCID_2.TIF")
	assert.Len(t, All("landsat_mss_c2_l1"), 14)
	assert.Len(t, All("landsat_8_c1"), 14)
	assert.Equal(t, All(model.LandsatOTC2L1), All("landsat_8_c1"))
}

func TestAll_ReturnsCopy(t *testing.T) {
	got := All(model.LandsatOTC2L1)
	got[0] = "changed"
	assert.Equal(t, "B1.TIF", All(model.LandsatOTC2L1)[0])
}

func TestDefaultSingle(t *testing.T) {
	assert.Equal(t, BandSet{"B4.TIF"}, DefaultSingle(model.LandsatTMC2L1))
	assert.Equal(t, BandSet{"B8.TIF"}, DefaultSingle(model.LandsatOTC2L1))
	assert.Equal(t, BandSet{"B8.TIF"}, DefaultSingle(model.LandsatETMC2L1))
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		dataset   model.Dataset
		requested []string
		want      BandSet
	}{
		{"all", model.LandsatOTC2L1, []string{"all"}, All(model.LandsatOTC2L1)},
		{"single", model.LandsatTMC2L1, []string{"single"}, BandSet{"B4.TIF"}},
		{"digit only", model.LandsatOTC2L1, []string{"4"}, BandSet{"B4.TIF"}},
		{"prefixed token", model.LandsatOTC2L1, []string{"b10"}, BandSet{"B10.TIF"}},
		{"one is not eleven", model.LandsatOTC2L1, []string{"1"}, BandSet{"B1.TIF"}},
		{"table order", model.LandsatOTC2L1, []string{"5", "3", "2"}, BandSet{"B2.TIF", "B3.TIF", "B5.TIF"}},
		{"vcid halves", model.LandsatETMC2L1, []string{"6"}, BandSet{"B6_VCID_1.TIF", "B6_VCID_2.TIF"}},
		{"one vcid half", model.LandsatETMC2L1, []string{"B6_VCID_2"}, BandSet{"B6_VCID_2.TIF"}},
		{"duplicates collapse", model.LandsatOTC2L1, []string{"4", "B4.TIF"}, BandSet{"B4.TIF"}},
		{"auxiliary by stem", model.LandsatOTC2L1, []string{"mtl", "4"}, BandSet{"B4.TIF", "MTL.txt"}},
		{"verification files", model.LandsatTMC2L1, []string{"VER"}, BandSet{"VER.txt", "VER.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.dataset, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_InvalidBand(t *testing.T) {
	for _, requested := range [][]string{{"99"}, {"foo"}, {"12"}} {
		_, err := Select(model.LandsatOTC2L1, requested)

		var bandErr *InvalidBandError
		require.ErrorAs(t, err, &bandErr)
		assert.Equal(t, requested, bandErr.Requested)
		assert.Equal(t, model.LandsatOTC2L1, bandErr.Dataset)
	}
}

func TestWantsBundle(t *testing.T) {
	assert.True(t, WantsBundle(nil))
	assert.True(t, WantsBundle([]string{"ALL"}))
	assert.False(t, WantsBundle([]string{"single"}))
	assert.False(t, WantsBundle([]string{"4", "all"}))
}
