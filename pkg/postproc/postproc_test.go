package postproc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmars/wadc"
	"github.com/redmars/wadc/pkg/prefs"
)

type call struct {
	name string
	args []string
}

func newTestLauncher(fail map[string]error) (*Launcher, *[]call, *wadc.LineBuffer) {
	var calls []call
	var sink wadc.LineBuffer
	logger := wadc.NewSinkLogger(false, &sink)
	p := prefs.Default()
	p.TWad1 = "gfx.wad"
	l := New(p, logger)
	l.Run = func(ctx context.Context, name string, args ...string) (string, error) {
		calls = append(calls, call{name, args})
		return "ok", fail[name]
	}
	return l, &calls, &sink
}

func TestArgs(t *testing.T) {
	p := prefs.Default()
	p.TWad2 = "b.wad"
	assert.Equal(t, []string{"bsp", "map.wad", "-o", "map.wad"}, BspArgs(p, "map.wad"))
	assert.Equal(t, []string{"doom", "-warp", "1", "b.wad", "map.wad"}, DoomArgs(p, "map.wad"))
}

func TestLaunchRunsBspThenDoom(t *testing.T) {
	l, calls, sink := newTestLauncher(nil)
	steps, err := l.Launch(context.Background(), "map.wad")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.True(t, steps[0].OK)
	assert.True(t, steps[1].OK)

	require.Len(t, *calls, 2)
	assert.Equal(t, "bsp", (*calls)[0].name)
	assert.Equal(t, []string{"-warp", "1", "gfx.wad", "map.wad"}, (*calls)[1].args)
	assert.Contains(t, sink.String(), "launching: bsp map.wad -o map.wad")
}

func TestFailingBspStillLaunchesDoom(t *testing.T) {
	l, calls, sink := newTestLauncher(map[string]error{"bsp": errors.New("not found")})
	steps, err := l.Launch(context.Background(), "map.wad")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.False(t, steps[0].OK)
	assert.Error(t, steps[0].Err)
	assert.True(t, steps[1].OK)
	assert.Len(t, *calls, 2)

	var warned bool
	for _, line := range sink.Lines() {
		if strings.HasPrefix(line, "warning: bsp") {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning, got %v", sink.Lines())
}

func TestCancelledLaunchStops(t *testing.T) {
	l, calls, sink := newTestLauncher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	l.Run = func(ctx context.Context, name string, args ...string) (string, error) {
		*calls = append(*calls, call{name, args})
		cancel()
		return "", context.Canceled
	}
	steps, err := l.Launch(ctx, "map.wad")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, steps, 1)
	assert.Len(t, *calls, 1)
	assert.Contains(t, sink.String(), "command interrupted!")
}

func TestLaunchNeedsWad(t *testing.T) {
	l, calls, _ := newTestLauncher(nil)
	_, err := l.Launch(context.Background(), "")
	assert.Error(t, err)
	assert.Empty(t, *calls)
}
