package rosmetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherValue(t *testing.T, r *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	families, err := r.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f.Metric
		}
	}
	return nil
}

func TestObserveServiceCallIncrementsCounterAndHistogram(t *testing.T) {
	r := prometheus.NewRegistry()
	m := NewMetrics(r)

	m.ObserveServiceCall("mapService", 50*time.Millisecond, "")
	m.ObserveServiceCall("mapService", 10*time.Millisecond, "ProtocolError")

	total := gatherValue(t, r, ServiceCallTotalName)
	if len(total) != 1 || total[0].GetCounter().GetValue() != 2 {
		t.Fatalf("expected 2 total calls, got %+v", total)
	}

	errs := gatherValue(t, r, ServiceCallErrorsName)
	if len(errs) != 1 || errs[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected 1 error, got %+v", errs)
	}
}

func TestSetTopicStaleTogglesGauge(t *testing.T) {
	r := prometheus.NewRegistry()
	m := NewMetrics(r)

	m.SetTopicStale("/odom", true)
	stale := gatherValue(t, r, TopicStaleGaugeName)
	if len(stale) != 1 || stale[0].GetGauge().GetValue() != 1 {
		t.Fatalf("expected stale=1, got %+v", stale)
	}

	m.SetTopicStale("/odom", false)
	stale = gatherValue(t, r, TopicStaleGaugeName)
	if len(stale) != 1 || stale[0].GetGauge().GetValue() != 0 {
		t.Fatalf("expected stale=0, got %+v", stale)
	}
}

func TestSetRuntimeStatusZeroesOtherStatuses(t *testing.T) {
	r := prometheus.NewRegistry()
	m := NewMetrics(r)

	all := []string{"IDLE", "CLEANING", "DOCKED", "ERROR"}
	m.SetRuntimeStatus("CLEANING", all)

	metrics := gatherValue(t, r, RuntimeStatusGaugeName)
	if len(metrics) != len(all) {
		t.Fatalf("expected %d status series, got %d", len(all), len(metrics))
	}
	for _, metric := range metrics {
		var status string
		for _, l := range metric.Label {
			if l.GetName() == "status" {
				status = l.GetValue()
			}
		}
		want := 0.0
		if status == "CLEANING" {
			want = 1.0
		}
		if metric.GetGauge().GetValue() != want {
			t.Fatalf("status %s: expected %v, got %v", status, want, metric.GetGauge().GetValue())
		}
	}
}

func TestSetMapPixelsRecordsBothLayers(t *testing.T) {
	r := prometheus.NewRegistry()
	m := NewMetrics(r)

	m.SetMapPixels(1200, 340)

	metrics := gatherValue(t, r, MapPixelsGaugeName)
	if len(metrics) != 2 {
		t.Fatalf("expected 2 layer series, got %d", len(metrics))
	}
}
