package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizerRoundTrip(t *testing.T) {
	n := newTestNormalizer(t)

	zones := []string{"UTC", "America/New_York", "Asia/Tokyo", "Europe/Paris", "Australia/Adelaide"}
	instants := []time.Time{
		time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC),  // US DST transition day
		time.Date(2024, 11, 3, 6, 30, 0, 0, time.UTC),  // fall-back day
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
	}

	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)
		for _, instant := range instants {
			local := n.ToLocal(instant, loc)
			back := n.ToLocal(n.ToReference(local), loc)
			require.True(t, back.Equal(local), "round trip through %s changed %s", name, instant)
			require.True(t, back.Equal(instant), "instant drifted through %s", name)
		}
	}
}

func TestNormalizerToStorageIsUTC(t *testing.T) {
	n := newTestNormalizer(t)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	local := time.Date(2024, 3, 4, 18, 0, 0, 0, tokyo)

	stored := n.ToStorage(local)
	require.Equal(t, time.UTC, stored.Location())
	require.True(t, stored.Equal(local))
	require.Equal(t, 9, stored.Hour())
}

func TestNormalizerReferenceZone(t *testing.T) {
	n := newTestNormalizer(t)
	require.Equal(t, ReferenceZoneName, n.Reference().String())

	// Rebasing changes only the wall clock, never the instant.
	at := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	ref := n.ToReference(at)
	require.True(t, ref.Equal(at))
	require.Equal(t, 9, ref.Hour()) // EST, UTC-5
}
