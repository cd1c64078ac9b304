package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReading_Percent_Fraction(t *testing.T) {
	pct, err := FractionReading(0.82).Percent()
	require.NoError(t, err)
	assert.InDelta(t, 82.0, pct, 1e-9)

	pct, err = FractionReading(1.0).Percent()
	require.NoError(t, err)
	assert.InDelta(t, 100.0, pct, 1e-9)

	pct, err = FractionReading(0).Percent()
	require.NoError(t, err)
	assert.Zero(t, pct)
}

func TestReading_Percent_Absolute(t *testing.T) {
	pct, err := AbsoluteReading(120, 160).Percent()
	require.NoError(t, err)
	assert.InDelta(t, 75.0, pct, 1e-9)

	pct, err = AbsoluteReading(0, 160).Percent()
	require.NoError(t, err)
	assert.Zero(t, pct)
}

func TestReading_Percent_AbsoluteRequiresMax(t *testing.T) {
	_, err := AbsoluteReading(120, 0).Percent()
	assert.Error(t, err)

	_, err = AbsoluteReading(120, -5).Percent()
	assert.Error(t, err)
}

func TestReading_Percent_NotClamped(t *testing.T) {
	// Transient out-of-range values pass through unclamped.
	pct, err := AbsoluteReading(180, 160).Percent()
	require.NoError(t, err)
	assert.InDelta(t, 112.5, pct, 1e-9)

	pct, err = FractionReading(-0.1).Percent()
	require.NoError(t, err)
	assert.InDelta(t, -10.0, pct, 1e-9)
}

func TestLogRecord_MarkerAndLine(t *testing.T) {
	dmg := LogRecord{Kind: RecordDamage, Amount: "18", DisplayName: "Gyarados"}
	assert.Equal(t, "-", dmg.Marker())
	assert.Equal(t, "18% to Gyarados", dmg.Line())

	heal := LogRecord{Kind: RecordHeal, Amount: "12.5", DisplayName: "Blissey"}
	assert.Equal(t, "+", heal.Marker())
	assert.Equal(t, "12.5% to Blissey", heal.Line())
}
