package transform_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strm16/transform"
)

func TestApplyRunsPrepassesThenTransform(t *testing.T) {
	var seen []string
	double := transform.New(
		func(in int) (int, error) {
			seen = append(seen, "transform")
			return in * 2, nil
		},
		transform.Prepass[int]{Name: "a", Run: func(int) error { seen = append(seen, "a"); return nil }},
		transform.Prepass[int]{Name: "b", Run: func(int) error { seen = append(seen, "b"); return nil }},
	)

	out, err := double.Apply(5)
	require.NoError(t, err)
	assert.Equal(t, 10, out)
	assert.Equal(t, []string{"a", "b", "transform"}, seen)
}

func TestApplyAbortsOnPrepassError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	t1 := transform.New(
		func(in int) (int, error) { ran = true; return in, nil },
		transform.Prepass[int]{Name: "fails", Run: func(int) error { return boom }},
	)

	_, err := t1.Apply(1)
	require.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

func TestChainComposes(t *testing.T) {
	toString := transform.New(func(in int) (string, error) { return "x", nil })
	double := transform.New(func(in int) (int, error) { return in * 2, nil })

	chained := transform.Chain(double, toString)
	out, err := chained.Apply(21)
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestRepeatRunsExactlyN(t *testing.T) {
	count := 0
	increment := transform.New(func(in int) (int, error) {
		count++
		return in + 1, nil
	})

	out, err := transform.Repeat(increment, 4).Apply(0)
	require.NoError(t, err)
	assert.Equal(t, 4, out)
	assert.Equal(t, 4, count)
}

func TestExtrasSidecar(t *testing.T) {
	e := transform.NewExtras(42)
	_, ok := e.Get("missing")
	assert.False(t, ok)

	e.Put("key", []byte{1, 2, 3})
	v, ok := e.Get("key")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)
	assert.Equal(t, 42, e.Data)
}
