package simerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappersPreserveSentinels(t *testing.T) {
	err := InvalidInput("threat %d has non-finite position", 3)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "threat 3")

	err = MissingField("Threats_Left_Sector")
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.Contains(t, err.Error(), "Threats_Left_Sector")

	err = DomainRange("thrust must be positive, got %v kN", -5.0)
	assert.True(t, errors.Is(err, ErrDomainRange))
	assert.Contains(t, err.Error(), "-5")
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(InvalidInput("x"), ErrMissingField))
	assert.False(t, errors.Is(MissingField("x"), ErrDomainRange))
	assert.False(t, errors.Is(DomainRange("x"), ErrInvalidInput))
}
