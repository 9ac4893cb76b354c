package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := NewFake(epoch)
	var got []string
	c.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	c.AfterFunc(time.Second, func() { got = append(got, "a") })
	c.AfterFunc(2*time.Second, func() { got = append(got, "c") })

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, epoch.Add(1500*time.Millisecond), c.Now())

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, c.Pending())
}

func TestFakeChainedCallbacks(t *testing.T) {
	c := NewFake(epoch)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, c.Pending())
}

func TestFakeStop(t *testing.T) {
	c := NewFake(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	require.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	c := NewFake(epoch)
	d := NewDebouncer(c, 750*time.Millisecond)
	var fired []int

	for i := 1; i <= 5; i++ {
		n := i
		d.Schedule(func() { fired = append(fired, n) })
		c.Advance(100 * time.Millisecond)
	}
	assert.True(t, d.Pending())
	assert.Empty(t, fired)

	c.Advance(750 * time.Millisecond)
	assert.Equal(t, []int{5}, fired)
	assert.False(t, d.Pending())
}

func TestDebouncerCancel(t *testing.T) {
	c := NewFake(epoch)
	d := NewDebouncer(c, 750*time.Millisecond)
	fired := false
	d.Schedule(func() { fired = true })

	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
	c.Advance(time.Second)
	assert.False(t, fired)
}
