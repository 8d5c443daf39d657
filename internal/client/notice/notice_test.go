package notice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_TransientBannersExpire(t *testing.T) {
	b := NewBoard(30*time.Millisecond, 60*time.Millisecond)

	b.Success(SlotUpload, "File uploaded successfully")
	got, ok := b.Get(SlotUpload)
	require.True(t, ok)
	assert.Equal(t, KindSuccess, got.Kind)
	assert.False(t, got.Persistent)

	require.Eventually(t, func() bool {
		_, ok := b.Get(SlotUpload)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestBoard_ErrorOutlivesSuccess(t *testing.T) {
	b := NewBoard(20*time.Millisecond, time.Hour)

	b.Success(SlotChat, "sent")
	b.Error(SlotUpload, "Upload failed")

	require.Eventually(t, func() bool {
		_, ok := b.Get(SlotChat)
		return !ok
	}, time.Second, 5*time.Millisecond)

	got, ok := b.Get(SlotUpload)
	require.True(t, ok)
	assert.Equal(t, KindError, got.Kind)
}

func TestBoard_PersistentUntilDismissed(t *testing.T) {
	b := NewBoard(time.Millisecond, time.Millisecond)

	b.Persist(SlotRoster, "Failed to load files")
	time.Sleep(10 * time.Millisecond)

	got, ok := b.Get(SlotRoster)
	require.True(t, ok)
	assert.True(t, got.Persistent)

	b.Dismiss(SlotRoster)
	_, ok = b.Get(SlotRoster)
	assert.False(t, ok)
}

func TestBoard_ActiveOrderedAndReplacing(t *testing.T) {
	b := NewBoard(time.Hour, time.Hour)

	b.Error(SlotUpload, "first")
	b.Persist(SlotRoster, "roster down")
	b.Success(SlotUpload, "second")
	b.Success(SlotChat, "chat")

	active := b.Active()
	require.Len(t, active, 3)
	assert.Equal(t, []string{SlotChat, SlotRoster, SlotUpload}, []string{active[0].Slot, active[1].Slot, active[2].Slot})
	assert.Equal(t, "second", active[2].Text)
	assert.Equal(t, KindSuccess, active[2].Kind)
}
