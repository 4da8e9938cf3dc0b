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

package sqlkv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (s *Store) registerMetrics() {
	promautoFactory := promauto.With(s.config.PromRegistry)
	promautoFactory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "daocake_blob_sql_open_connections",
			Help:        "open connections to the SQL key/value backend",
			ConstLabels: prometheus.Labels{"backend": s.config.Component},
		},
		func() float64 {
			sqlDb, err := s.db.DB()
			if err != nil {
				return 0
			}
			return float64(sqlDb.Stats().OpenConnections)
		},
	)
}
