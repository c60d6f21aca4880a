// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/vechain/sequencer/metrics"
)

var (
	metricInsertedEvents = metrics.LazyLoadCounter("eventdb_inserted_events_count")
	metricQueryDuration  = metrics.LazyLoadHistogram("eventdb_query_duration_ms", metrics.BucketHTTPReqs)
	metricQueryParams    = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters", "order"})
	metricLimitBucket    = metrics.LazyLoadHistogram("eventdb_query_limit_bucket", []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *Filter) {
	used := make([]string, 0, 3)
	if len(filter.Kinds) > 0 {
		used = append(used, "kind")
	}
	if filter.Account != nil {
		used = append(used, "account")
	}
	if filter.Range != nil {
		used = append(used, "range")
	}
	order := "asc"
	if filter.Order == DESC {
		order = "desc"
	}
	metricQueryParams().AddWithLabel(1, map[string]string{"parameters": strings.Join(used, ","), "order": order})

	if filter.Options != nil {
		limit := filter.Options.Limit
		if limit > 1000 {
			limit = 1001
		}
		metricLimitBucket().Observe(int64(limit))
	}
}
