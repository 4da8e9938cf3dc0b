// Copyright 2026 Blink Labs Software
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

package governance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type stateMetrics struct {
	operations          *prometheus.CounterVec
	votes               *prometheus.CounterVec
	proposalsResolved   *prometheus.CounterVec
	invariantViolations prometheus.Counter
}

func (m *stateMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.operations = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daocake_governance_operations_total",
			Help: "governance write operations, by operation and result",
		},
		[]string{"operation", "result"},
	)
	m.votes = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daocake_governance_votes_total",
			Help: "recorded votes, by direction",
		},
		[]string{"vote_for"},
	)
	m.proposalsResolved = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daocake_governance_proposals_resolved_total",
			Help: "proposals that reached quorum, by kind",
		},
		[]string{"kind"},
	)
	m.invariantViolations = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "daocake_governance_invariant_violations_total",
			Help: "operations aborted because stored state was inconsistent",
		},
	)
}
