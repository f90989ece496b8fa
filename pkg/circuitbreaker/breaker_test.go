package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	var transitions []string
	b := New(Settings{
		Name:                "kafka",
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Hour,
		OnStateChange: func(_ string, from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	})
	boom := errors.New("boom")

	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.Equal(t, "open", b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	b := New(Settings{Name: "kafka", ConsecutiveFailures: 1, OpenTimeout: 10 * time.Millisecond})

	_ = b.Do(func() error { return errors.New("boom") })
	assert.Equal(t, "open", b.State())

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, "closed", b.State())
}
