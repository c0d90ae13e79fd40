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

package event

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Publishing while the subscriber is removed must neither panic nor hang
func TestPublishUnsubscribeRace(t *testing.T) {
	for range 500 {
		eb := NewEventBus(nil, nil)
		subId, ch := eb.Subscribe(MintEventType)

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := range 10 {
				eb.Publish(MintEventType, NewEvent(MintEventType, MintEvent{Serial: uint64(j)}))
			}
		}()
		go func() {
			defer wg.Done()
			eb.Unsubscribe(MintEventType, subId)
			eb.Stop()
		}()
		go func() {
			defer wg.Done()
			for range ch {
			}
		}()
		wg.Wait()
		eb.Stop()
	}
}

func TestSubscribeFuncStopRace(t *testing.T) {
	for range 500 {
		eb := NewEventBus(nil, nil)
		var wg sync.WaitGroup
		var subscribed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if eb.SubscribeFunc(OperationEventType, func(Event) {}) != 0 {
					subscribed.Add(1)
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			eb.Stop()
		}()
		wg.Wait()
		eb.Stop()
	}
}

func TestPublishDoesNotBlockOnFullChannel(t *testing.T) {
	eb := NewEventBus(nil, nil)
	defer eb.Stop()
	_, ch := eb.Subscribe(MintEventType)
	for range EventQueueSize {
		eb.Publish(MintEventType, NewEvent(MintEventType, MintEvent{}))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		eb.Publish(MintEventType, NewEvent(MintEventType, MintEvent{TokenID: "overflow"}))
	}()
	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)

	for range EventQueueSize {
		select {
		case evt := <-ch:
			require.NotEqual(t, "overflow", evt.Data.(MintEvent).TokenID)
		default:
			t.Fatal("expected buffered event")
		}
	}
	select {
	case <-ch:
		t.Fatal("overflow event should have been dropped")
	default:
	}
}

func TestChannelSubscriberDeliverAfterClose(t *testing.T) {
	sub := newChannelSubscriber(5, nil)
	sub.Close()
	// Closing twice is harmless
	sub.Close()
	require.True(t, sub.Deliver(NewEvent(MintEventType, MintEvent{})))
}
