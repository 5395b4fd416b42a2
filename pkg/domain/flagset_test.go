package domain

import (
	"reflect"
	"testing"
)

func TestFlagSet(t *testing.T) {
	t.Run("add and dedupe", func(t *testing.T) {
		set := NewFlagSet()
		set.Add("one")
		set.Add("one")
		set.Add("two")

		if set.Len() != 2 {
			t.Errorf("expected 2 flags, got %d", set.Len())
		}
		if !set.Contains("one") || !set.Contains("two") {
			t.Errorf("missing flags: %v", set.Values())
		}
	})

	t.Run("empty names dropped", func(t *testing.T) {
		set := NewFlagSet()
		set.Add("")
		if set.Len() != 0 {
			t.Errorf("expected empty name dropped, got %v", set.Values())
		}
	})

	t.Run("values sorted", func(t *testing.T) {
		set := NewFlagSet()
		set.AddAll([]string{"charlie", "alpha", "bravo"})

		want := []string{"alpha", "bravo", "charlie"}
		if !reflect.DeepEqual(set.Values(), want) {
			t.Errorf("expected %v, got %v", want, set.Values())
		}
	})

	t.Run("merge", func(t *testing.T) {
		a := NewFlagSet()
		a.Add("one")
		b := NewFlagSet()
		b.Add("one")
		b.Add("two")

		a.Merge(b)

		if a.Len() != 2 {
			t.Errorf("expected 2 flags after merge, got %v", a.Values())
		}
	})
}

func TestProvenance(t *testing.T) {
	t.Run("records files per flag", func(t *testing.T) {
		prov := NewProvenance()
		prov.Record("flag-a", "src/one.js")
		prov.Record("flag-a", "src/two.js")
		prov.Record("flag-b", "src/one.js")

		if got := prov.Files("flag-a"); !reflect.DeepEqual(got, []string{"src/one.js", "src/two.js"}) {
			t.Errorf("expected both files, got %v", got)
		}
		if got := prov.Files("flag-b"); !reflect.DeepEqual(got, []string{"src/one.js"}) {
			t.Errorf("expected one file, got %v", got)
		}
	})

	t.Run("deduplicates paths", func(t *testing.T) {
		prov := NewProvenance()
		prov.Record("flag-a", "src/one.js")
		prov.Record("flag-a", "src/one.js")

		if got := prov.Files("flag-a"); len(got) != 1 {
			t.Errorf("expected deduplicated path, got %v", got)
		}
	})

	t.Run("unknown flag yields nothing", func(t *testing.T) {
		prov := NewProvenance()
		if got := prov.Files("missing"); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
