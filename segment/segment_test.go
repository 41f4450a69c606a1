package segment

import "testing"

func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		cat  Category
		want bool
	}{
		{"input is input", Input, CatInput, true},
		{"input is not output", Input, CatOutput, false},
		{"constants is input", Constants, CatInput, true},
		{"constants is parameters", Constants, CatParameters, true},
		{"parameter_cache is parameters", ParameterCache, CatParameters, true},
		{"parameter_cache is cache", ParameterCache, CatCache, true},
		{"parameter_cache is not input", ParameterCache, CatInput, false},
		{"writeseries is output", WriteSeries, CatOutput, true},
		{"writeseries is series", WriteSeries, CatSeries, true},
		{"series_cache is series", SeriesCache, CatSeries, true},
		{"cache is cache only", Cache, CatCache, true},
		{"globals is output and parameters", Globals, CatOutput | CatParameters, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Is(tt.cat); got != tt.want {
				t.Errorf("Is(%v) = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	if !Input.Immutable() {
		t.Error("input should be immutable")
	}
	if Cache.Immutable() {
		t.Error("cache should be mutable")
	}
	if !Constants.Scalar() {
		t.Error("constants should be scalar")
	}
	if Data.Scalar() {
		t.Error("data should be row-indexed")
	}
	if !SeriesCache.KeepsDuplicates() {
		t.Error("series_cache should keep duplicate labels")
	}
	if WriteData.KeepsDuplicates() {
		t.Error("writedata should deduplicate labels")
	}
}

func TestUnknownKind(t *testing.T) {
	k := Kind("bogus")
	if k.Known() {
		t.Error("bogus kind should not be known")
	}
	if k.Categories() != 0 {
		t.Error("bogus kind should have no categories")
	}
}

func TestOfCategory(t *testing.T) {
	got := OfCategory(CatSeries)
	want := []Kind{WriteSeries, SeriesCache}
	if len(got) != len(want) {
		t.Fatalf("OfCategory(series) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("OfCategory(series) = %v, want %v", got, want)
		}
	}
}
