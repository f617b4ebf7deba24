package fixtures

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanhub/backend/internal/listing"
	"artisanhub/backend/pkg/models"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestWriteAll_WritesEveryFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	written, err := WriteAll(fs, Options{Dir: "out", Now: fixedNow})
	require.NoError(t, err)
	require.Len(t, written, 3)

	for _, name := range []string{ArtisansFile, ArtisanJobsFile, JobScenariosFile} {
		exists, err := afero.Exists(fs, "out/"+name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	data, err := afero.ReadFile(fs, "out/"+ArtisansFile)
	require.NoError(t, err)
	var artisans []models.Artisan
	require.NoError(t, json.Unmarshal(data, &artisans))
	assert.Len(t, artisans, DefaultArtisans)
	assert.Equal(t, DefaultArtisans, written[0].Records)
	assert.Equal(t, len(data), written[0].Bytes)
}

func TestWriteAll_DeterministicForSeed(t *testing.T) {
	a, b := afero.NewMemMapFs(), afero.NewMemMapFs()
	_, err := WriteAll(a, Options{Seed: 7, Now: fixedNow})
	require.NoError(t, err)
	_, err = WriteAll(b, Options{Seed: 7, Now: fixedNow})
	require.NoError(t, err)

	for _, name := range []string{ArtisansFile, ArtisanJobsFile, JobScenariosFile} {
		da, _ := afero.ReadFile(a, name)
		db, _ := afero.ReadFile(b, name)
		assert.Equal(t, string(da), string(db), name)
	}
}

func TestArtisans_FieldRanges(t *testing.T) {
	for _, a := range NewGenerator(1, fixedNow).Artisans(100) {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Skills)
		assert.GreaterOrEqual(t, a.Rating, 3.0)
		assert.LessOrEqual(t, a.Rating, 5.0)
		_, _, ok := listing.ParsePriceRange(a.PriceRange)
		assert.True(t, ok, a.PriceRange)
	}
}

func TestArtisanJobs_AreOpen(t *testing.T) {
	for _, j := range NewGenerator(1, fixedNow).ArtisanJobs(50) {
		assert.Equal(t, models.JobStatusOpen, j.Status)
		assert.False(t, j.CreatedAt.After(fixedNow))
	}
}

func TestJobScenarios_Coverage(t *testing.T) {
	scenarios := NewGenerator(1, fixedNow).JobScenarios()

	statuses := map[models.JobStatus]bool{}
	schedules := map[models.ScheduleType]bool{}
	buckets := map[string]bool{}
	for _, j := range scenarios {
		statuses[j.Status] = true
		schedules[j.ScheduleType] = true
		lo, hi, ok := listing.ParsePriceRange(j.PriceRange)
		require.True(t, ok, j.PriceRange)
		for _, b := range listing.PriceBuckets {
			if b.Contains(lo, hi) {
				buckets[b.Name] = true
			}
		}
	}
	assert.Len(t, statuses, 4)
	assert.Len(t, schedules, 2)
	assert.Len(t, buckets, len(listing.PriceBuckets))
}

func TestFormatPriceRange(t *testing.T) {
	assert.Equal(t, "₦5,000 – ₦10,000", FormatPriceRange(5000, 10000))
	assert.Equal(t, "₦0 – ₦1,250,000", FormatPriceRange(0, 1250000))
}
