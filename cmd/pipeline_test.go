package cmd

import (
	"bytes"
	"testing"

	"travel-planner/config"
	"travel-planner/models"
	"travel-planner/storage"
	"travel-planner/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipeline(t *testing.T) *pipeline {
	t.Helper()
	cfg := &config.Config{
		Output: config.OutputConfig{
			Dir:              t.TempDir(),
			DestinationsFile: "destinations.csv",
		},
		Trip: config.TripConfig{
			Checkin:  "2025-06-01",
			Checkout: "2025-06-03",
			Adults:   2,
			Destinations: []models.DestinationInput{
				{Key: "Paris", Country: "France"},
				{Key: "Bayeux", Country: "France"},
			},
		},
	}
	return &pipeline{cfg: cfg, logger: utils.NewNopLogger(), out: &bytes.Buffer{}}
}

func TestDestinationIDs_NoFile(t *testing.T) {
	p := testPipeline(t)
	ids, err := p.destinationIDs()
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestDestinationIDs_FromGeocodeOutput(t *testing.T) {
	p := testPipeline(t)
	require.NoError(t, storage.WriteDestinationsCSV(
		p.cfg.OutputPath(p.cfg.Output.DestinationsFile),
		[]models.Destination{{ID: 1, Key: "Bayeux", Name: "Bayeux", Longitude: -0.70, Latitude: 49.27}},
		p.logger,
	))

	ids, err := p.destinationIDs()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Bayeux": 1}, ids)

	coord, err := p.newCoordinator(ids)
	require.NoError(t, err)
	urls := coord.ListingURLs()
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "ss=Bayeux%2CFrance")
}

func TestOpenDatabase_Disabled(t *testing.T) {
	p := testPipeline(t)
	db, err := p.openDatabase("run-1")
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestRunID_SharedAcrossSteps(t *testing.T) {
	p := testPipeline(t)
	assert.NotEqual(t, p.runID(), p.runID())

	p.cfg.Run.ID = "trip-2025-06"
	assert.Equal(t, "trip-2025-06", p.runID())
	coord, err := p.newCoordinator(nil)
	require.NoError(t, err)
	assert.Equal(t, p.runID(), coord.RunID())
}
