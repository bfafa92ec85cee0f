package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(175, 70)
	require.NoError(t, err)
	assert.InDelta(t, 22.86, bmi, 0.01)

	_, err = CalculateBMI(0, 70)
	assert.Error(t, err)
	_, err = CalculateBMI(175, -5)
	assert.Error(t, err)
	_, err = CalculateBMI(300, 70)
	assert.Error(t, err, "implausible height")
}

func TestBMICategory(t *testing.T) {
	assert.Equal(t, "Underweight", BMICategory(17.0))
	assert.Equal(t, "Normal weight", BMICategory(22.0))
	assert.Equal(t, "Overweight", BMICategory(27.5))
	assert.Equal(t, "Obesity class I", BMICategory(32.0))
	assert.Equal(t, "Obesity class III", BMICategory(41.0))
}
