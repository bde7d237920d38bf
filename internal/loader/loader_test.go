package loader_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery/internal/loader"
	"grocery/internal/service"
	"grocery/internal/testutil"
)

func TestLoad_Ready(t *testing.T) {
	src := testutil.NewFakeSource(service.Item{ID: 1, Label: "Milk"})
	l := loader.New(loader.NewLatch(), loader.Options{})

	st := l.Load(context.Background(), src)

	assert.Equal(t, service.Ready, st.Status)
	assert.Equal(t, []service.Item{{ID: 1, Label: "Milk"}}, st.Items)
	assert.Empty(t, st.Message)
}

func TestLoad_UnexpectedResponse(t *testing.T) {
	src := testutil.NewFakeSource()
	src.Err = service.ErrUnexpectedResponse
	l := loader.New(loader.NewLatch(), loader.Options{})

	st := l.Load(context.Background(), src)

	assert.Equal(t, service.Failed, st.Status)
	assert.Equal(t, "Did not receive expected data", st.Message)
	assert.Empty(t, st.Items)
}

func TestLoad_TransportFault(t *testing.T) {
	src := testutil.NewFakeSource()
	src.Err = errors.New("dial tcp 127.0.0.1:3500: connect: connection refused")
	l := loader.New(loader.NewLatch(), loader.Options{})

	st := l.Load(context.Background(), src)

	assert.Equal(t, service.Failed, st.Status)
	assert.Equal(t, "dial tcp 127.0.0.1:3500: connect: connection refused", st.Message)
}

func TestLoad_ParseFailure(t *testing.T) {
	src := testutil.NewFakeSource()
	src.Err = fmt.Errorf("%w: unexpected EOF", service.ErrMalformedItems)
	l := loader.New(loader.NewLatch(), loader.Options{})

	st := l.Load(context.Background(), src)

	assert.Equal(t, service.Failed, st.Status)
	assert.Equal(t, "malformed item data: unexpected EOF", st.Message)
}

func TestLoad_AtMostOncePerLatch(t *testing.T) {
	src := testutil.NewFakeSource(service.Item{ID: 1, Label: "Milk"})
	latch := loader.NewLatch()
	l := loader.New(latch, loader.Options{})

	first := l.Load(context.Background(), src)
	src.AddItem(2, "Bread", false)
	second := l.Load(context.Background(), src)

	assert.Equal(t, 1, src.Calls())
	assert.True(t, latch.Fired())
	assert.Equal(t, first, second)
}

func TestLoad_FailureAlsoFiresLatch(t *testing.T) {
	src := testutil.NewFakeSource()
	src.Err = service.ErrUnexpectedResponse
	l := loader.New(loader.NewLatch(), loader.Options{})

	l.Load(context.Background(), src)
	src.Err = nil
	st := l.Load(context.Background(), src)

	assert.Equal(t, 1, src.Calls())
	assert.Equal(t, service.Failed, st.Status)
}

func TestLoad_SharedLatchAcrossLoaders(t *testing.T) {
	src := testutil.NewFakeSource()
	latch := loader.NewLatch()

	loader.New(latch, loader.Options{}).Load(context.Background(), src)
	loader.New(latch, loader.Options{}).Load(context.Background(), src)

	assert.Equal(t, 1, src.Calls())
}

func TestLoad_IndependentLatches(t *testing.T) {
	src := testutil.NewFakeSource()

	loader.New(loader.NewLatch(), loader.Options{}).Load(context.Background(), src)
	loader.New(loader.NewLatch(), loader.Options{}).Load(context.Background(), src)

	assert.Equal(t, 2, src.Calls())
}

func TestLoad_ConcurrentCallersShareOneFetch(t *testing.T) {
	src := testutil.NewFakeSource(service.Item{ID: 1, Label: "Milk"})
	src.Block = make(chan struct{})
	l := loader.New(loader.NewLatch(), loader.Options{})

	var wg sync.WaitGroup
	results := make([]service.ListState, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Load(context.Background(), src)
		}(i)
	}

	close(src.Block)
	wg.Wait()

	assert.Equal(t, 1, src.Calls())
	for _, st := range results {
		assert.Equal(t, service.Ready, st.Status)
		assert.Len(t, st.Items, 1)
	}
}

func TestLoad_ResultIsCopy(t *testing.T) {
	src := testutil.NewFakeSource(service.Item{ID: 1, Label: "Milk"})
	l := loader.New(loader.NewLatch(), loader.Options{})

	first := l.Load(context.Background(), src)
	first.Items[0].Label = "changed"

	assert.Equal(t, "Milk", l.Load(context.Background(), src).Items[0].Label)
}

func TestLoad_Delay(t *testing.T) {
	src := testutil.NewFakeSource(service.Item{ID: 1, Label: "Milk"})
	l := loader.New(loader.NewLatch(), loader.Options{Delay: 20 * time.Millisecond})

	start := time.Now()
	st := l.Load(context.Background(), src)

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, service.ReadyState([]service.Item{{ID: 1, Label: "Milk"}}), st)
}

func TestLoad_DelayCancelled(t *testing.T) {
	src := testutil.NewFakeSource(service.Item{ID: 1, Label: "Milk"})
	l := loader.New(loader.NewLatch(), loader.Options{Delay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := l.Load(ctx, src)

	require.Equal(t, service.Failed, st.Status)
	assert.Equal(t, context.Canceled.Error(), st.Message)
	assert.Equal(t, 0, src.Calls())
}

type panickingSource struct{}

func (panickingSource) FetchItems(ctx context.Context) ([]service.Item, error) {
	panic("nil map")
}

func TestLoad_PanickingSourceSettlesFailed(t *testing.T) {
	l := loader.New(loader.NewLatch(), loader.Options{})

	st := l.Load(context.Background(), panickingSource{})
	assert.Equal(t, service.Failed, st.Status)
	assert.Equal(t, "initial load panicked: nil map", st.Message)

	again := l.Load(context.Background(), panickingSource{})
	assert.Equal(t, st, again)
}
