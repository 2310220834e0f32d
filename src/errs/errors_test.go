package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	nf := NewNotFound("country", "Atlantis")
	wrapped := fmt.Errorf("compare: %w", nf)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrParse))
	assert.Equal(t, `country "Atlantis" not found`, nf.Error())

	var target *NotFoundError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "Atlantis", target.Name)
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Path: "data.csv", Line: 3, Column: "2006", Err: errors.New("bad number")}
	assert.Equal(t, `parse data.csv line 3 column "2006": bad number`, err.Error())
	assert.True(t, errors.Is(err, ErrParse))

	noLine := &ParseError{Path: "data.csv", Err: errors.New("empty file")}
	assert.Equal(t, "parse data.csv: empty file", noLine.Error())
}

func TestNotFoundUnwrapsCause(t *testing.T) {
	err := &NotFoundError{Kind: "file", Name: "x.csv", Err: os.ErrNotExist}
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestValidationError(t *testing.T) {
	err := NewValidation("points", "need %d, got %d", 5, 3)
	assert.Equal(t, "points: need 5, got 3", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))

	bare := &ValidationError{Message: "bad"}
	assert.Equal(t, "bad", bare.Error())
}
