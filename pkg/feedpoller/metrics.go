package feedpoller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pollResultSuccess   = "success"
	pollResultFailure   = "failure"
	pollResultDiscarded = "discarded"
)

var (
	pollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liveboard_feed_polls_total",
		Help: "Feed polls by outcome",
	}, []string{"feed", "result"})

	feedServices = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "liveboard_feed_services",
		Help: "Services in the last successful poll of a feed",
	}, []string{"feed"})
)
