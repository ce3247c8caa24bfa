package render

import (
	"sync"
	"testing"
)

func TestPaletteFirstEncounterOrder(t *testing.T) {
	p := NewPalette()
	groups := []string{"person", "org", "place"}
	for i, g := range groups {
		if got := p.Color(g); got != Category10[i] {
			t.Errorf("Color(%q) = %s, want %s", g, got, Category10[i])
		}
	}
	if got := p.Groups(); len(got) != 3 || got[0] != "person" {
		t.Errorf("Groups() = %v", got)
	}
}

func TestPaletteStable(t *testing.T) {
	p := NewPalette()
	first := map[string]string{}
	for _, g := range []string{"a", "b", "c", "a", "b"} {
		c := p.Color(g)
		if prev, ok := first[g]; ok && prev != c {
			t.Errorf("Color(%q) changed from %s to %s", g, prev, c)
		}
		first[g] = c
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
}

func TestPaletteWraps(t *testing.T) {
	p := NewPalette("#000", "#fff")
	p.Color("a")
	p.Color("b")
	if got := p.Color("c"); got != "#000" {
		t.Errorf("Color(c) = %s, want wrap to #000", got)
	}
}

func TestPaletteEmptyGroup(t *testing.T) {
	p := NewPalette()
	if p.Color("") != p.Color("") {
		t.Error("empty group should map to one color")
	}
}

func TestPaletteConcurrent(t *testing.T) {
	p := NewPalette()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				p.Color(string(rune('a' + (i+j)%5)))
			}
		}()
	}
	wg.Wait()
	if p.Len() != 5 {
		t.Errorf("Len() = %d, want 5", p.Len())
	}
}
