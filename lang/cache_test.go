package lang

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCache_Interns(t *testing.T) {
	table, _ := testTable(t)
	cache := NewCache()

	first, err := cache.Parse(rateLawOwner(), "rate", "4 * param_id", table)
	if err != nil {
		t.Fatal(err)
	}

	second, err := cache.Parse(rateLawOwner(), "other", "4 * param_id", table)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("identical source under one owner parsed twice")
	}

	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestCache_KeysByOwnerAndSource(t *testing.T) {
	table, _ := testTable(t)
	cache := NewCache()

	rate, _ := cache.Parse(rateLawOwner(), "attr", "obs_id", table)
	obs, _ := cache.Parse(observableOwner(), "attr", "obs_id", table)
	other, _ := cache.Parse(rateLawOwner(), "attr", "obs_id + 1", table)

	if rate == obs {
		t.Error("distinct owners share one Parsed")
	}

	if rate == other {
		t.Error("distinct sources share one Parsed")
	}

	if cache.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cache.Len())
	}
}

func TestCache_TrimsKeySource(t *testing.T) {
	table, _ := testTable(t)
	cache := NewCache()

	first, _ := cache.Parse(rateLawOwner(), "attr", "param_id + 1", table)
	second, _ := cache.Parse(rateLawOwner(), "attr", "  param_id + 1\n", table)

	if first != second {
		t.Error("surrounding whitespace defeated interning")
	}
}

func TestCache_Reset(t *testing.T) {
	table, _ := testTable(t)
	cache := NewCache()

	first, _ := cache.Parse(rateLawOwner(), "attr", "param_id", table)
	cache.Reset()

	if cache.Len() != 0 {
		t.Fatalf("Len() = %d after Reset, want 0", cache.Len())
	}

	second, _ := cache.Parse(rateLawOwner(), "attr", "param_id", table)
	if first == second {
		t.Error("Reset did not discard the interned Parsed")
	}
}

func TestCache_HardErrorsNotCached(t *testing.T) {
	table, _ := testTable(t)
	cache := NewCache()

	if _, err := cache.Parse(Owner{Name: "Empty"}, "attr", "3", table); !errors.Is(err, ErrConfig) {
		t.Fatalf("Parse() = %v, want configuration failure", err)
	}

	if cache.Len() != 0 {
		t.Errorf("Len() = %d after a failed parse, want 0", cache.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	table, _ := testTable(t)
	cache := NewCache()
	sources := []string{"param_id", "obs_id + 1", "pow(2, obs_id)", "fun_1 - fun_2"}

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			source := sources[i%len(sources)]

			p, err := cache.Parse(rateLawOwner(), fmt.Sprintf("attr%d", i), source, table)
			if err != nil {
				t.Errorf("Parse(%q) = %v", source, err)

				return
			}

			if p.Source() != source {
				t.Errorf("Parse(%q) interned %q", source, p.Source())
			}
		}()
	}

	wg.Wait()

	if cache.Len() != len(sources) {
		t.Errorf("Len() = %d, want %d", cache.Len(), len(sources))
	}
}
