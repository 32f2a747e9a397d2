package moea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/doe"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions([]byte(`
ranks: 5
rankSize: 20
retention: retain
seed: 7
doe:
  terminate: count
  count: 3
`))
	require.NoError(t, err)
	assert.Equal(t, ptr.To(5), opts.Ranks)
	assert.Equal(t, ptr.To(20), opts.RankSize)
	assert.Equal(t, archive.Retain, opts.Retention)
	assert.Equal(t, ptr.To[int64](7), opts.Seed)
	require.NotNil(t, opts.DOE)
	assert.Equal(t, doe.Options{Terminate: doe.Count, Count: ptr.To(3)}, *opts.DOE)
	assert.NotNil(t, opts.Random)
	assert.NotNil(t, opts.RandInt)
	assert.NotNil(t, opts.Logger.GetSink())
}

func TestLoadOptionsDefaults(t *testing.T) {
	opts, err := LoadOptions([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, ptr.To(DefaultRanks), opts.Ranks)
	assert.Equal(t, ptr.To(DefaultRankSize), opts.RankSize)
	assert.Equal(t, archive.Discard, opts.Retention)
	assert.Nil(t, opts.DOE)
}

func TestLoadOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown field", data: "ranks: 5\nsize: 3\n"},
		{name: "negative ranks", data: "ranks: -5\n"},
		{name: "zero ranks", data: "ranks: 0\n"},
		{name: "zero rank size", data: "rankSize: 0\n"},
		{name: "unknown retention", data: "retention: keep\n"},
		{name: "unknown phase", data: "doe:\n  terminate: never\n"},
		{name: "count without count termination", data: "doe:\n  terminate: ofat\n  count: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOptions([]byte(tt.data))
			assert.ErrorIs(t, err, framework.ErrInvalidOptions)
		})
	}
}

func TestIssuedRecordRing(t *testing.T) {
	r := newIssuedRecord(3, 1)
	assert.False(t, r.contains([]int{-1}), "empty entries are not reported")

	r1 := r.add([]int{1})
	r2 := r1.add([]int{2}).add([]int{3})
	r3 := r2.add([]int{4})

	assert.True(t, r1.contains([]int{1}))
	assert.False(t, r1.contains([]int{2}))
	assert.Equal(t, 3, len(r2.list()))
	assert.False(t, r3.contains([]int{1}), "oldest entry is overwritten")
	assert.True(t, r3.contains([]int{4}))
	for i, want := range []int{2, 3, 4} {
		assert.Equal(t, want, r3.list()[i][0])
	}
	assert.Equal(t, 1, len(r1.list()), "older versions are unchanged")
}
