package metrics

import (
	"fmt"
	"testing"
)

func BenchmarkGauge(b *testing.B) {
	g := NewGauge()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Update(int64(i))
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge()
	g.Update(int64(47))
	if v := g.Value(); v != 47 {
		t.Errorf("g.Value(): 47 != %v\n", v)
	}
}

func TestGaugeSnapshot(t *testing.T) {
	g := NewGauge()
	g.Update(int64(47))
	snapshot := g.Snapshot()
	g.Update(int64(0))
	if v := snapshot.Value(); v != 47 {
		t.Errorf("g.Value(): 47 != %v\n", v)
	}
}

func TestGetOrRegisterGauge(t *testing.T) {
	r := NewRegistry()
	NewRegisteredGauge("lightclient/best_weight", r).Update(47)
	if g := GetOrRegisterGauge("lightclient/best_weight", r); g.Value() != 47 {
		t.Fatal(g)
	}
}

// A FunctionalGauge reports the value its function returns at read time
// rather than a value pushed on update.
func TestFunctionalGauge(t *testing.T) {
	var polls int64
	fg := NewFunctionalGauge(func() int64 {
		polls++
		return polls
	})
	fg.Value()
	fg.Value()
	if polls != 2 {
		t.Error("polls != 2")
	}
}

func TestGetOrRegisterFunctionalGauge(t *testing.T) {
	r := NewRegistry()
	NewRegisteredFunctionalGauge("piececache/occupancy", r, func() int64 { return 47 })
	if g := GetOrRegisterGauge("piececache/occupancy", r); g.Value() != 47 {
		t.Fatal(g)
	}
}

func ExampleGetOrRegisterGauge() {
	m := "piececache/reads_total"
	g := GetOrRegisterGauge(m, nil)
	g.Update(47)
	fmt.Println(g.Value()) // Output: 47
}
