package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowDefaults(t *testing.T) {
	s := New(nil)
	defer s.Close()

	ok := s.Success("Saved", "Client saved")
	bad := s.Error("Failed", "boom")
	info := s.Info("Heads up", "")

	assert.Equal(t, KindSuccess, ok.Kind)
	assert.Equal(t, DefaultDuration, ok.Duration)
	assert.Equal(t, ErrorDuration, bad.Duration)
	assert.Equal(t, DefaultDuration, info.Duration)
	assert.NotEqual(t, ok.ID, bad.ID)

	toasts := s.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, []string{ok.ID, bad.ID, info.ID}, []string{toasts[0].ID, toasts[1].ID, toasts[2].ID})
}

func TestAutoRemove(t *testing.T) {
	s := New(nil)
	defer s.Close()

	s.Show(KindWarning, "Short", "", 20*time.Millisecond)
	sticky := s.Show(KindInfo, "Sticky", "", -1)
	assert.True(t, sticky.Sticky())

	assert.Eventually(t, func() bool {
		return len(s.Toasts()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, sticky.ID, s.Toasts()[0].ID)
}

func TestRemoveAndClear(t *testing.T) {
	s := New(nil)
	defer s.Close()

	a := s.Info("a", "")
	s.Info("b", "")

	assert.True(t, s.Remove(a.ID))
	assert.False(t, s.Remove(a.ID))
	assert.Len(t, s.Toasts(), 1)

	s.Clear()
	assert.Empty(t, s.Toasts())
}

func TestSubscribe(t *testing.T) {
	s := New(nil)
	defer s.Close()

	ch, cancel := s.Subscribe()
	assert.Empty(t, <-ch)

	s.Info("one", "")
	s.Info("two", "")

	// Only the latest list is kept for a slow reader.
	latest := <-ch
	assert.Len(t, latest, 2)

	cancel()
	_, open := <-ch
	assert.False(t, open)
	cancel()
}

func TestClose(t *testing.T) {
	s := New(nil)
	ch, _ := s.Subscribe()
	<-ch

	s.Show(KindInfo, "x", "", 10*time.Millisecond)
	s.Close()
	s.Close()

	for range ch {
	}
	s.Info("after", "")
	assert.Len(t, s.Toasts(), 1, "toasts queued before close are kept")
}
