package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(logger)

	var got []string
	router.Register("a", HandlerFunc(func(_ context.Context, msg *Message) error {
		got = append(got, string(msg.Value))
		return nil
	}))
	router.Register("b", HandlerFunc(func(_ context.Context, _ *Message) error {
		return errors.New("store down")
	}))

	require.NoError(t, router.Handle(context.Background(), &Message{Topic: "a", Value: []byte("one")}))
	assert.Equal(t, []string{"one"}, got)

	assert.Error(t, router.Handle(context.Background(), &Message{Topic: "b"}))

	assert.NoError(t, router.Handle(context.Background(), &Message{Topic: "unknown"}),
		"unrouted topics are committed")
	assert.ElementsMatch(t, []string{"a", "b"}, router.Topics())
}

func TestConsumerDispatchSurvivesFailures(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var observed []string
	calls := 0
	c := New(nil, HandlerFunc(func(_ context.Context, msg *Message) error {
		calls++
		switch string(msg.Value) {
		case "fail":
			return errors.New("boom")
		case "panic":
			panic("unexpected payload")
		}
		return nil
	}), WithLogger(logger), WithErrorObserver(func(topic string, _ error) {
		observed = append(observed, topic)
	}))

	ctx := context.Background()
	c.dispatch(ctx, &Message{Topic: "t1", Value: []byte("fail")})
	c.dispatch(ctx, &Message{Topic: "t2", Value: []byte("panic")})
	c.dispatch(ctx, &Message{Topic: "t3", Value: []byte("ok")})

	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"t1"}, observed)
}
