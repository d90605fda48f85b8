package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheroute/valhalla/pkg/valhalla"
	"github.com/breatheroute/valhalla/pkg/valhalla/client"
	"github.com/breatheroute/valhalla/pkg/valhalla/status"
)

func TestAsync_Route(t *testing.T) {
	async := client.NewAsync(client.New(&fakeTransport{reply: fixture(t, "route.json")}))

	future := async.Route(context.Background(), walk(t))
	resp, err := future.Wait(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Trip.Legs, 2)

	select {
	case <-future.Done():
	default:
		t.Fatal("Done must be closed after Wait returns a result")
	}
}

func TestAsync_Error(t *testing.T) {
	async := client.NewAsync(client.New(&fakeTransport{err: errors.New("boom")}))

	_, err := async.Status(context.Background(), status.Manifest{}).Wait(context.Background())
	assert.ErrorIs(t, err, valhalla.ErrTransport)
}

func TestFuture_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	future := client.Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := future.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_ResultIsStable(t *testing.T) {
	future := client.Go(context.Background(), func(context.Context) (string, error) {
		return "ready", nil
	})

	for i := 0; i < 3; i++ {
		v, err := future.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ready", v)
	}
}
