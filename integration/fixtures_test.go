package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/6d7a/asnr-sub000/asn1"
	"github.com/6d7a/asnr-sub000/internal/testutil"
)

// expectedPath returns the path to the corpus expectation file.
func expectedPath() string {
	return filepath.Join("..", "testdata", "expected", "corpus.json")
}

// TestCorpusMatchesFixtures folds every compiled type declaration and
// compares the normalized node against the expectation file. The file
// covers every type in the corpus, so a missing entry on either side
// fails.
func TestCorpusMatchesFixtures(t *testing.T) {
	m := loadCorpus(t)
	want := testutil.LoadFixture(t, expectedPath())

	types := m.Types()
	require.Len(t, types, len(want), "expectation file should cover every corpus type")

	for _, td := range types {
		t.Run(td.Name, func(t *testing.T) {
			fd, ok := want[td.Name]
			require.True(t, ok, "type %s has no expectation entry", td.Name)
			testutil.DeepEqual(t, fd, testutil.NormalizeDecl(td), "normalized declaration")
		})
	}
}

// TestCorpusBoundedTypes spot-checks the folded bounds of the
// integer-like corpus types through the public fold entry point, so a
// regression in expectation bookkeeping cannot mask one in folding.
func TestCorpusBoundedTypes(t *testing.T) {
	m := loadCorpus(t)

	cases := []struct {
		// Name is the corpus type declaration under test.
		Name string
		// Bounds is the folded range rendered by testutil.FormatBounds.
		Bounds string
		// Width is the bit length of the folded range.
		Width int
	}{
		// === Telematics-Basics ===
		{Name: "StationID", Bounds: "(0..4294967295)", Width: 32},
		{Name: "SpeedValue", Bounds: "(0..16383)", Width: 14},
		{Name: "HeadingValue", Bounds: "(0..3601)", Width: 12},
		{Name: "AccelerationValue", Bounds: "(-160..161, ...)", Width: 9},
		{Name: "Latitude", Bounds: "(-900000000..900000001)", Width: 31},
		{Name: "Longitude", Bounds: "(-1800000000..1800000001)", Width: 32},
		{Name: "AltitudeValue", Bounds: "(-100000..800001)", Width: 20},
		{Name: "StationName", Bounds: "(1..32)", Width: 5},

		// === Telematics-Messages ===
		{Name: "GenerationTime", Bounds: "(0..65535)", Width: 16},
		{Name: "PathHistory", Bounds: "(0..40)", Width: 6},
		{Name: "DriveDirection", Bounds: "(0..2)", Width: 2},
		{Name: "VehicleRole", Bounds: "(0..9, ...)", Width: 4},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			td := getType(t, m, tc.Name)
			bounds, err := asn1.FoldType(td.Type)
			testutil.NoError(t, err, "fold")
			testutil.NotNil(t, bounds, "bounds")
			testutil.Equal(t, tc.Bounds, testutil.FormatBounds(bounds), "folded range")
			width, ok := bounds.BitLength()
			testutil.True(t, ok, "width defined")
			testutil.Equal(t, tc.Width, width, "bit length")
		})
	}
}

// TestCorpusDistinguishedValues verifies named values survive parsing
// and linking on the types that declare them.
func TestCorpusDistinguishedValues(t *testing.T) {
	m := loadCorpus(t)

	cases := []struct {
		// Name is the corpus type declaration under test.
		Name string
		// Values are the expected distinguished values.
		Values map[int64]string
	}{
		{Name: "SpeedValue", Values: map[int64]string{0: "standstill", 16383: "unavailable"}},
		{Name: "HeadingValue", Values: map[int64]string{0: "wgs84North", 900: "wgs84East", 3601: "unavailable"}},
		{Name: "AccelerationValue", Values: map[int64]string{1: "pointOneMeterPerSecSquared", 161: "unavailable"}},
		{Name: "Latitude", Values: map[int64]string{900000001: "unavailable"}},
		{Name: "GenerationTime", Values: map[int64]string{1: "oneMillisecond"}},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			td := getType(t, m, tc.Name)
			integer, ok := td.Type.(*asn1.Integer)
			require.True(t, ok, "expected *asn1.Integer, got %T", td.Type)
			got := testutil.NormalizeDistinguished(integer.DistinguishedValues)
			testutil.DeepEqual(t, tc.Values, got, "distinguished values")
		})
	}
}

// TestCorpusStationType checks the largest distinguished value table in
// the corpus, including the gap before roadSideUnit.
func TestCorpusStationType(t *testing.T) {
	m := loadCorpus(t)

	td := getType(t, m, "StationType")
	integer, ok := td.Type.(*asn1.Integer)
	require.True(t, ok, "expected *asn1.Integer, got %T", td.Type)

	got := testutil.NormalizeDistinguished(integer.DistinguishedValues)
	testutil.Len(t, integer.DistinguishedValues, 13, "distinguished value count")
	testutil.Equal(t, "unknown", got[0], "first named value")
	testutil.Equal(t, "tram", got[11], "last contiguous value")
	testutil.Equal(t, "roadSideUnit", got[15], "value after the gap")
	if _, ok := got[12]; ok {
		t.Error("value 12 should not be named")
	}
}

// TestCorpusCharacterStrings verifies restricted string variants come
// through the parser intact.
func TestCorpusCharacterStrings(t *testing.T) {
	m := loadCorpus(t)

	td := getType(t, m, "StationName")
	cs, ok := td.Type.(*asn1.CharacterString)
	require.True(t, ok, "expected *asn1.CharacterString, got %T", td.Type)
	testutil.Equal(t, asn1.IA5String, cs.Variant, "variant")
}
