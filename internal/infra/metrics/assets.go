package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(imageRehostTotal) }

var imageRehostTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webforge_image_rehost_total",
		Help: "Total image rehost attempts, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'dropped'
)

func IncImageRehost(outcome string) {
	imageRehostTotal.WithLabelValues(norm(outcome)).Inc()
}
