package timezone_test

import (
	"testing"
	"time"

	"libraryhub/shared/constant"
	"libraryhub/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimezoneInit(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
}

func TestToAppTime(t *testing.T) {
	utcTime := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	appTime := timezone.ToAppTime(utcTime)

	assert.Equal(t, timezone.GetLocation(), appTime.Location())
	assert.True(t, appTime.Equal(utcTime))
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	parsed, err := time.Parse(constant.DateOnlyFormat, today)
	require.NoError(t, err)
	assert.Equal(t, timezone.Now().Format(constant.DateOnlyFormat), parsed.Format(constant.DateOnlyFormat))
}

func TestFormatAndParse(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.NotEmpty(t, timezone.Format(testTime, "2006-01-02 15:04:05 MST"))

	parsed, err := timezone.Parse(constant.DateOnlyFormat, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.May, parsed.Month())
	assert.Equal(t, timezone.GetLocation(), parsed.Location())
}
