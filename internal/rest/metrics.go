// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mlnoga/gaialas/internal/convert"
)

var (
	FilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaialas_files_total",
			Help: "Catalog files processed, by outcome",
		},
		[]string{"status"},
	)

	PointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gaialas_points_total",
			Help: "Points written to point clouds",
		},
	)

	RejectedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaialas_rejected_records_total",
			Help: "Catalog records rejected, by error kind",
		},
		[]string{"kind"},
	)

	ConvertDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gaialas_convert_duration_seconds",
			Help:    "Duration of conversion requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms to ~44min
		},
	)

	ColorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gaialas_color_requests_total",
			Help: "Color queries, by strategy and HTTP status",
		},
		[]string{"strategy", "status"},
	)
)

// Adds the outcome of a conversion run to the counters
func observeSummary(sum *convert.Summary) {
	FilesTotal.WithLabelValues("converted").Add(float64(sum.Converted))
	FilesTotal.WithLabelValues("skipped").Add(float64(sum.Skipped))
	FilesTotal.WithLabelValues("failed").Add(float64(sum.Failed))
	FilesTotal.WithLabelValues("cancelled").Add(float64(sum.Cancelled))
	PointsTotal.Add(float64(sum.Points))
	for kind, n := range sum.ByKind {
		RejectedRecordsTotal.WithLabelValues(kind.String()).Add(float64(n))
	}
}
