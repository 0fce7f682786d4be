package bus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testObserver struct {
	published []string
	delivered int
	lastErr   error
}

func (o *testObserver) OnPublish(e Event) {
	o.published = append(o.published, e.Type())
}

func (o *testObserver) OnDelivered(_ Event, handlers int, err error, _ time.Duration) {
	o.delivered += handlers
	o.lastErr = err
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New()
	var order []int
	for i := 0; i < 3; i++ {
		_, err := b.Subscribe(TypeWorldOpened, func(Event) error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, b.Publish(NewEvent(TypeWorldOpened, "game", "arena")))
	require.Equal(t, []int{0, 1, 2}, order)
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	b := New()
	first := errors.New("first")
	second := errors.New("second")
	_, _ = b.Subscribe("x", func(Event) error { return first })
	_, _ = b.Subscribe("x", func(Event) error { return second })

	err := b.Publish(NewEvent("x", "test", nil))
	require.ErrorIs(t, err, first)
	require.ErrorIs(t, err, second)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe("x", func(Event) error { calls++; return nil })
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("x", "test", nil)))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel(), "second cancel is safe")
	require.NoError(t, b.Publish(NewEvent("x", "test", nil)))

	require.Equal(t, 1, calls)
	require.False(t, sub.IsActive())
	require.NoError(t, b.Unsubscribe(nil))
}

func TestSubscribeRejectsNilHandler(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	require.ErrorIs(t, err, ErrNilHandler)
	require.ErrorIs(t, New().Publish(nil), ErrNilEvent)
}

func TestPublishAsyncReturnsErrorChannel(t *testing.T) {
	b := New()
	handlerErr := errors.New("fail")
	_, _ = b.Subscribe("x", func(Event) error { return handlerErr })

	select {
	case err := <-b.PublishAsync(NewEvent("x", "src", nil)):
		require.ErrorIs(t, err, handlerErr)
	case <-time.After(time.Second):
		t.Fatal("async publish did not complete")
	}
}

func TestOnTypeFiltersPayload(t *testing.T) {
	b := New()
	var got []StageChange
	_, _ = b.Subscribe(TypeStageChanged, OnType(func(c StageChange) error {
		got = append(got, c)
		return nil
	}))

	require.NoError(t, b.Publish(NewEvent(TypeStageChanged, "game", StageChange{From: "Unloaded", To: "Initialization"})))
	require.NoError(t, b.Publish(NewEvent(TypeStageChanged, "game", "not a stage change")))
	require.Equal(t, []StageChange{{From: "Unloaded", To: "Initialization"}}, got)
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	require.NoError(t, b.Publish(NewEvent("e", "s", nil)))
	require.Zero(t, b.GetMetrics().Published)

	obs := &testObserver{}
	b.AddObserver(obs)
	require.NoError(t, b.Publish(NewEvent("e", "s", nil)))
	require.NoError(t, b.Publish(NewEvent("unheard", "s", nil)))

	m := b.GetMetrics()
	require.EqualValues(t, 2, m.Published)
	require.EqualValues(t, 1, m.DeliveredHandlers)
	require.EqualValues(t, 1, m.SubscribersActive)
	require.Equal(t, []string{"e", "unheard"}, obs.published)

	b.RemoveObserver(obs)
	require.NoError(t, b.Publish(NewEvent("e", "s", nil)))
	require.Len(t, obs.published, 2)
}

func TestPublishBatchKeepsOrder(t *testing.T) {
	b := New()
	var got []string
	_, _ = b.Subscribe(TypeWorldOpened, func(e Event) error { got = append(got, "opened:"+e.Data().(string)); return nil })
	_, _ = b.Subscribe(TypeWorldClosed, func(e Event) error { got = append(got, "closed:"+e.Data().(string)); return nil })

	require.NoError(t, b.PublishBatch(
		NewEvent(TypeWorldClosed, "game", "a"),
		NewEvent(TypeWorldOpened, "game", "b"),
	))
	require.Equal(t, []string{"closed:a", "opened:b"}, got)
}
