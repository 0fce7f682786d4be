package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapOrderedKeepsInputOrder(t *testing.T) {
	in := []int{5, 4, 3, 2, 1}
	out, err := MapOrdered(context.Background(), in, 3, func(_ context.Context, v int) (int, error) {
		return v * 10, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{50, 40, 30, 20, 10}, out)
}

func TestMapOrderedReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	_, err := MapOrdered(context.Background(), []int{1, 2, 3}, 1, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})
	require.ErrorIs(t, err, boom)
}

func TestSettleRespectsWorkerLimit(t *testing.T) {
	var running, peak atomic.Int32
	in := make([]int, 20)
	results := Settle(context.Background(), in, 2, func(_ context.Context, v int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return v, nil
	})
	require.Len(t, results, 20)
	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSettleKeepsPerItemErrors(t *testing.T) {
	boom := errors.New("boom")
	results := Settle(context.Background(), []string{"ok", "bad", "ok"}, 4, func(_ context.Context, v string) (string, error) {
		if v == "bad" {
			return "", boom
		}
		return v + "!", nil
	})
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, boom)
	require.Equal(t, "ok!", results[2].Value)
}
