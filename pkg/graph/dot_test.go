package graph

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	g := sampleGraph(t)

	dot := ToDOT(g, DOTOptions{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("missing undirected graph header")
	}
	for _, want := range []string{`"a";`, `"b";`, `"c";`, `"a" -- "b";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	if !strings.Contains(dot, `"a" -- "c" [style=dashed]`) {
		t.Error("tolerance edge not dashed")
	}
	if !strings.Contains(dot, `"b" -- "c" [style=dashed, color=red]`) {
		t.Error("bridge edge not dashed red")
	}
	if strings.Contains(dot, "label") {
		t.Error("labels present without Detailed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := sampleGraph(t)

	dot := ToDOT(g, DOTOptions{Detailed: true})

	if !strings.Contains(dot, `label="431m"`) {
		t.Error("strict edge missing shared length label")
	}
	if !strings.Contains(dot, `label="90210m"`) {
		t.Error("bridge edge missing distance label")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := sampleGraph(t)
	if ToDOT(g, DOTOptions{}) != ToDOT(g, DOTOptions{}) {
		t.Error("DOT output not stable")
	}
}
