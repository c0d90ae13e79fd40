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

package hub

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/public-awesome/badges/response"
)

const metricNamePrefix = "badgehub_"

type hubMetrics struct {
	operations    *prometheus.CounterVec
	badgesCreated prometheus.Counter
	tokensMinted  prometheus.Counter
	keysAdded     prometheus.Counter
	keysPurged    prometheus.Counter
	ownersPurged  prometheus.Counter
	feeCollected  *prometheus.CounterVec
}

func newHubMetrics(promRegistry prometheus.Registerer) *hubMetrics {
	promautoFactory := promauto.With(promRegistry)
	return &hubMetrics{
		operations: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "operations_total",
				Help: "total registry operations by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		badgesCreated: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "badges_created_total",
			Help: "total badges created",
		}),
		tokensMinted: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "tokens_minted_total",
			Help: "total badge instances minted",
		}),
		keysAdded: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "keys_added_total",
			Help: "total claim keys whitelisted",
		}),
		keysPurged: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "keys_purged_total",
			Help: "total claim keys purged",
		}),
		ownersPurged: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "owners_purged_total",
			Help: "total claimant records purged",
		}),
		feeCollected: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "fee_collected_total",
				Help: "total fees distributed by denom",
			},
			[]string{"denom"},
		),
	}
}

// Observe records the outcome of an operation. It should only be called once
// the state changes of the operation have been committed.
func (h *Hub) Observe(name string, res *response.Response, err error) {
	if err != nil {
		h.metrics.operations.WithLabelValues(action(name), "error").Inc()
		return
	}
	h.metrics.operations.WithLabelValues(action(name), "ok").Inc()
	if name == "create_badge" {
		h.metrics.badgesCreated.Inc()
	}
	h.metrics.tokensMinted.Add(float64(len(res.Mints())))
	for key, counter := range map[string]prometheus.Counter{
		"keys_added":    h.metrics.keysAdded,
		"keys_purged":   h.metrics.keysPurged,
		"owners_purged": h.metrics.ownersPurged,
	} {
		val, ok := res.Attribute(key)
		if !ok {
			continue
		}
		count, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			continue
		}
		counter.Add(float64(count))
	}
	for _, msg := range res.Messages {
		var coins []response.Coin
		switch m := msg.(type) {
		case response.BankSend:
			coins = m.Amount
		case response.BankBurn:
			coins = m.Amount
		case response.FundCommunityPool:
			coins = m.Amount
		}
		for _, coin := range coins {
			h.metrics.feeCollected.WithLabelValues(coin.Denom).
				Add(float64(coin.Amount))
		}
	}
}
