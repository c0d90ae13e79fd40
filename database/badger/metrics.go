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

package badger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const badgerMetricNamePrefix = "database_state_"

const (
	opGet     = "get"
	opSet     = "set"
	opDelete  = "delete"
	opIterate = "iterate"
)

type blobMetrics struct {
	opsTotal *prometheus.CounterVec
}

// observe is safe to call when metrics are not configured
func (m *blobMetrics) observe(op string) {
	if m == nil {
		return
	}
	m.opsTotal.WithLabelValues(op).Inc()
}

func (d *BlobStoreBadger) registerBlobMetrics() {
	promautoFactory := promauto.With(d.promRegistry)
	d.metrics = &blobMetrics{
		opsTotal: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: badgerMetricNamePrefix + "ops_total",
				Help: "Total number of state store operations",
			},
			[]string{"op"},
		),
	}
	promautoFactory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: badgerMetricNamePrefix + "lsm_size_bytes",
			Help: "Size of the state store LSM tree",
		},
		func() float64 {
			lsm, _ := d.db.Size()
			return float64(lsm)
		},
	)
	promautoFactory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: badgerMetricNamePrefix + "vlog_size_bytes",
			Help: "Size of the state store value log",
		},
		func() float64 {
			_, vlog := d.db.Size()
			return float64(vlog)
		},
	)
}
