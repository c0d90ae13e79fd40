// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/public-awesome/badges/event"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEventBusSingleSubscriber(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe(event.MintEventType)
	eb.Publish(
		event.MintEventType,
		event.NewEvent(event.MintEventType, event.MintEvent{BadgeID: 1, Serial: 2, TokenID: "1|2"}),
	)
	select {
	case evt, ok := <-subCh:
		require.True(t, ok, "event channel closed unexpectedly")
		data, ok := evt.Data.(event.MintEvent)
		require.True(t, ok, "unexpected event data type %T", evt.Data)
		assert.Equal(t, "1|2", data.TokenID)
		assert.Equal(t, event.MintEventType, evt.Type)
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for event")
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, sub1Ch := eb.Subscribe(event.OperationEventType)
	_, sub2Ch := eb.Subscribe(event.OperationEventType)
	// Subscribers of other types see nothing
	_, otherCh := eb.Subscribe(event.MintEventType)
	eb.Publish(
		event.OperationEventType,
		event.NewEvent(event.OperationEventType, event.OperationEvent{Action: "create_badge"}),
	)
	for _, ch := range []<-chan event.Event{sub1Ch, sub2Ch} {
		select {
		case evt := <-ch:
			assert.Equal(t, "create_badge", evt.Data.(event.OperationEvent).Action)
		case <-time.After(1 * time.Second):
			t.Fatalf("timeout waiting for event")
		}
	}
	select {
	case <-otherCh:
		t.Fatalf("received event of another type")
	default:
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	subId, subCh := eb.Subscribe(event.MintEventType)
	eb.Unsubscribe(event.MintEventType, subId)
	eb.Publish(event.MintEventType, event.NewEvent(event.MintEventType, event.MintEvent{}))
	select {
	case _, ok := <-subCh:
		require.False(t, ok, "received unexpected event")
	case <-time.After(1 * time.Second):
		t.Fatalf("subscriber channel was not closed after Unsubscribe")
	}
}

func TestEventBusStop(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	_, subCh := eb.Subscribe(event.MintEventType)
	doneCh := make(chan bool, 1)
	eb.SubscribeFunc(event.MintEventType, func(evt event.Event) {
		doneCh <- true
	})
	eb.Publish(event.MintEventType, event.NewEvent(event.MintEventType, event.MintEvent{}))
	select {
	case <-doneCh:
	case <-time.After(1 * time.Second):
		t.Fatal("SubscribeFunc did not receive event before Stop")
	}

	eb.Stop()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-subCh:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	eb.Publish(event.MintEventType, event.NewEvent(event.MintEventType, event.MintEvent{}))
	select {
	case <-doneCh:
		t.Fatal("SubscribeFunc should not have received event after Stop")
	case <-time.After(100 * time.Millisecond):
	}

	// The bus is usable again after Stop
	_, newCh := eb.Subscribe(event.MintEventType)
	eb.Publish(event.MintEventType, event.NewEvent(event.MintEventType, event.MintEvent{}))
	select {
	case _, ok := <-newCh:
		require.True(t, ok)
	case <-time.After(1 * time.Second):
		t.Fatal("new subscriber did not receive event")
	}
	eb.Stop()
}

func TestSubscribeFuncPanicRecovery(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	var received atomic.Int32
	eb.SubscribeFunc(event.OperationEventType, func(evt event.Event) {
		if received.Add(1) == 1 {
			panic("handler failure")
		}
	})
	for range 2 {
		eb.Publish(
			event.OperationEventType,
			event.NewEvent(event.OperationEventType, event.OperationEvent{}),
		)
	}
	require.Eventually(t, func() bool {
		return received.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublishAsync(t *testing.T) {
	reg := prometheus.NewRegistry()
	eb := event.NewEventBus(reg, nil)
	_, ch := eb.Subscribe(event.MintEventType)
	require.True(t, eb.PublishAsync(event.MintEventType, event.NewEvent(event.MintEventType, event.MintEvent{Serial: 7})))
	select {
	case evt := <-ch:
		assert.Equal(t, uint64(7), evt.Data.(event.MintEvent).Serial)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for async event")
	}
	eb.Stop()
	count, err := testutil.GatherAndCount(reg, "event_bus_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
