package bisyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringTargetWriteCheckpointRollback(t *testing.T) {
	tgt := NewStringTarget()
	require.NoError(t, tgt.write([]byte("abc")))
	mark := tgt.checkpoint()
	require.NoError(t, tgt.write([]byte("def")))
	assert.Equal(t, "abcdef", tgt.String())

	require.NoError(t, tgt.rollback(mark))
	assert.Equal(t, "abc", tgt.String())
	assert.Equal(t, []byte("abc"), tgt.finish())
}

func TestStringTargetCommitIsNoop(t *testing.T) {
	tgt := NewStringTarget()
	require.NoError(t, tgt.write([]byte("x")))
	mark := tgt.checkpoint()
	tgt.commit(mark)
	assert.Equal(t, "x", tgt.String())
}

func TestStringTargetRollbackPastEndFails(t *testing.T) {
	tgt := NewStringTarget()
	require.NoError(t, tgt.write([]byte("x")))
	assert.Error(t, tgt.rollback(5))
}

func TestChunkTargetWriteCheckpointRollback(t *testing.T) {
	tgt := NewChunkTarget[int]()
	require.NoError(t, tgt.write([]int{1, 2, 3}))
	mark := tgt.checkpoint()
	require.NoError(t, tgt.write([]int{4, 5}))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tgt.finish())

	require.NoError(t, tgt.rollback(mark))
	assert.Equal(t, []int{1, 2, 3}, tgt.Chunk().Items())
}

func TestChunkTargetRollbackPastEndFails(t *testing.T) {
	tgt := NewChunkTarget[byte]()
	assert.Error(t, tgt.rollback(1))
}

func TestChunkItemsReflectsUnderlyingChunk(t *testing.T) {
	c := NewChunk[string]()
	tgt := &ChunkTarget[string]{chunk: c}
	require.NoError(t, tgt.write([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, c.Items())
}
