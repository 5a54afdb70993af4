package palette

import "testing"

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"exams", categories["exams"]},
		{"Exams", categories["exams"]},
		{" Student Life ", categories["student life"]},
		{"CCA", categories["cca"]},
		{"weather", Default},
		{"", Default},
	}

	for _, tt := range tests {
		if got := Category(tt.name); got != tt.want {
			t.Errorf("Category(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestCategoryIsDeterministic(t *testing.T) {
	for _, name := range Known() {
		if Category(name) != Category(name) {
			t.Errorf("colour for %s changed between calls", name)
		}
	}
}

func TestSign(t *testing.T) {
	if Sign(-0.01) != Negative {
		t.Error("expected negative colour")
	}
	if Sign(0) != Positive {
		t.Error("expected zero to use positive colour")
	}
	if Sign(2) != Positive {
		t.Error("expected positive colour")
	}
}

func TestKnownSorted(t *testing.T) {
	names := Known()
	if len(names) != len(categories) {
		t.Fatalf("expected %d names, got %d", len(categories), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted at %d", i)
		}
	}
}
