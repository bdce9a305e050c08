package encyclopedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewriter/bluewriter/pkg/types"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("Aria", "aria"))
	assert.Equal(t, 0.75, similarity("Aria", "Arya"))
	assert.Less(t, similarity("Aria", "Castle Black"), MinSimilarity)
}

func TestService_Similar(t *testing.T) {
	env, svc, pid := setup(t)

	for _, name := range []string{"Aria", "Arya", "Castle Black", "Ari"} {
		_, err := svc.Create(env.Ctx, pid, types.NewEntry{Name: name})
		require.NoError(t, err)
	}
	env.Recorder.Reset()

	matches, err := svc.Similar(env.Ctx, pid, "aria", 0)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "Aria", matches[0].Entry.Name)
	assert.Equal(t, 1.0, matches[0].Score)
	// Ties keep name order.
	assert.Equal(t, "Ari", matches[1].Entry.Name)
	assert.Equal(t, "Arya", matches[2].Entry.Name)

	matches, err = svc.Similar(env.Ctx, pid, "Aria", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = svc.Similar(env.Ctx, pid, "Zed", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = svc.Similar(env.Ctx, pid, "  ", 5)
	assert.True(t, types.IsInvalid(err))
	assert.Equal(t, 0, env.Recorder.Len())
}
