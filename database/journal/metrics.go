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

package journal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/public-awesome/badges/database/models"
)

const journalMetricNamePrefix = "database_journal_"

type journalMetrics struct {
	operations prometheus.Counter
	mints      prometheus.Counter
	fees       prometheus.Counter
}

func (d *JournalStore) registerMetrics() {
	promautoFactory := promauto.With(d.promRegistry)
	d.metrics = &journalMetrics{
		operations: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: journalMetricNamePrefix + "operations_total",
			Help: "Total number of operations written to the journal",
		}),
		mints: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: journalMetricNamePrefix + "mints_total",
			Help: "Total number of mint records written to the journal",
		}),
		fees: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: journalMetricNamePrefix + "fee_payments_total",
			Help: "Total number of fee payment records written to the journal",
		}),
	}
}

// observeOperation counts records as they are written. Writes rolled back
// afterwards are still counted.
func (d *JournalStore) observeOperation(op *models.Operation) {
	if d.metrics == nil {
		return
	}
	d.metrics.operations.Inc()
	d.metrics.mints.Add(float64(len(op.Mints)))
	if op.FeePayment != nil {
		d.metrics.fees.Inc()
	}
}
