package daemon

import (
	"net/http"

	"github.com/theirongolddev/messmate/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the Prometheus collectors of one service. Each service has
// its own registry so several can coexist in one process.
type metrics struct {
	registry  *prometheus.Registry
	meals     *prometheus.GaugeVec
	moneyOwed prometheus.Gauge
	credit    prometheus.Gauge
	advances  *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		meals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "messmate_meals",
			Help: "Meals of the current cycle by status.",
		}, []string{"status"}),
		moneyOwed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "messmate_money_owed",
			Help: "Amount owed for the current cycle; negative means net savings.",
		}),
		credit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "messmate_extension_days_credit",
			Help: "Extension days credited from closed cycles.",
		}),
		advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "messmate_meal_advances_total",
			Help: "Meal status changes made through the API, by resulting status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(m.meals, m.moneyOwed, m.credit, m.advances)
	return m
}

// set copies the current statistics into the gauges.
func (m *metrics) set(st model.Stats, credit int) {
	for _, s := range model.Statuses {
		m.meals.WithLabelValues(s.String()).Set(float64(st.Count(s)))
	}
	m.moneyOwed.Set(money(st.MoneyOwed))
	m.credit.Set(float64(credit))
}

// handler serves the registry, calling refresh before every scrape.
func (m *metrics) handler(refresh func(*metrics)) http.Handler {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh(m)
		h.ServeHTTP(w, r)
	})
}
