package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

const namespace = "league_auction"

// Registry owns the service collectors. It implements usecase.AuctionMetrics.
type Registry struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bidsRecorded      *prometheus.CounterVec
	bidPoints         *prometheus.CounterVec
	bidsUndone        *prometheus.CounterVec
	playersUnassigned *prometheus.CounterVec
	queueItemsAdded   *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bidsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_recorded_total",
			Help:      "Winning bids recorded per track.",
		}, []string{"tournament", "sport_category"}),
		bidPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bid_points_total",
			Help:      "Points spent on winning bids per track.",
		}, []string{"tournament", "sport_category"}),
		bidsUndone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_undone_total",
			Help:      "Allocations reverted per track.",
		}, []string{"tournament", "sport_category"}),
		playersUnassigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_unallocated_total",
			Help:      "Players marked unallocated per track.",
		}, []string{"tournament", "sport_category"}),
		queueItemsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_items_added_total",
			Help:      "Players added to the auction queue per track.",
		}, []string{"tournament", "sport_category"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.bidsRecorded,
		r.bidPoints,
		r.bidsUndone,
		r.playersUnassigned,
		r.queueItemsAdded,
	)
	return r
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Registry) BidRecorded(track tournament.Track, amount int64) {
	r.bidsRecorded.WithLabelValues(track.TournamentID, string(track.SportCategory)).Inc()
	if amount > 0 {
		r.bidPoints.WithLabelValues(track.TournamentID, string(track.SportCategory)).Add(float64(amount))
	}
}

func (r *Registry) BidUndone(track tournament.Track) {
	r.bidsUndone.WithLabelValues(track.TournamentID, string(track.SportCategory)).Inc()
}

func (r *Registry) PlayerUnallocated(track tournament.Track) {
	r.playersUnassigned.WithLabelValues(track.TournamentID, string(track.SportCategory)).Inc()
}

func (r *Registry) QueueItemsAdded(track tournament.Track, count int) {
	if count <= 0 {
		return
	}
	r.queueItemsAdded.WithLabelValues(track.TournamentID, string(track.SportCategory)).Add(float64(count))
}

// ObserveHTTP records one served request. route is the mux pattern, never the raw path.
func (r *Registry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
