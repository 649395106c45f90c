package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunKeepsAppliedStateOnSuccess(t *testing.T) {
	state := "old"
	compensated := false
	err := Command{
		Apply:      func() { state = "new" },
		Write:      func(context.Context) error { return nil },
		Compensate: func() { compensated = true },
	}.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "new", state)
	assert.False(t, compensated)
}

func TestRunCompensatesFailedWrite(t *testing.T) {
	boom := errors.New("boom")
	state := "old"
	var seen string
	err := Command{
		Apply: func() { state = "new" },
		Write: func(context.Context) error {
			seen = state
			return boom
		},
		Compensate: func() { state = "old" },
	}.Run(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "new", seen, "applied before the write")
	assert.Equal(t, "old", state)
}

func TestRunWithoutHooks(t *testing.T) {
	err := Command{Write: func(context.Context) error { return context.Canceled }}.Run(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}
