package fonts

import (
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/resource"
)

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	want := []string{"gobold", "gomono", "goregular"}
	if len(names) != len(want) {
		t.Fatalf("BuiltinNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("BuiltinNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFaceMeasure(t *testing.T) {
	f, err := Parse("goregular", goregular.TTF)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	face := f.Face(24)

	if face.LineHeight() <= 0 {
		t.Fatalf("LineHeight() = %v, want > 0", face.LineHeight())
	}

	short, h := face.Measure("ab")
	long, _ := face.Measure("ab ab ab")
	if short <= 0 || long <= short {
		t.Errorf("Measure() widths = %v, %v; want 0 < short < long", short, long)
	}
	if h != face.LineHeight() {
		t.Errorf("Measure() height = %v, want %v", h, face.LineHeight())
	}

	empty, _ := face.Measure("")
	if empty != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", empty)
	}

	// A larger size must measure wider.
	big, _ := f.Face(48).Measure("ab")
	if big <= short {
		t.Errorf("Measure at 48pt = %v, want > %v", big, short)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("junk", []byte("not a font")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary(resource.MapResolver{"Custom.ttf": goregular.TTF})

	custom, err := lib.Load("Custom.ttf")
	if err != nil {
		t.Fatalf("Load(Custom.ttf) error = %v", err)
	}
	again, _ := lib.Load("Custom.ttf")
	if custom != again {
		t.Error("Load() should return the cached font on second call")
	}

	if _, err := lib.Load("gobold"); err != nil {
		t.Errorf("Load(gobold) error = %v", err)
	}

	def, err := lib.Load("")
	if err != nil || def.Name != Default {
		t.Errorf("Load(\"\") = %v, %v; want %s", def, err, Default)
	}

	if _, err := lib.Load("Missing.ttf"); !errors.Is(err, errors.ErrCodeResourceNotFound) {
		t.Errorf("Load(Missing.ttf) error = %v, want %s", err, errors.ErrCodeResourceNotFound)
	}
}

func TestLibraryConcurrentLoad(t *testing.T) {
	lib := NewLibrary(nil)

	var wg sync.WaitGroup
	fonts := make([]*Font, 8)
	for i := range fonts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := lib.Load("goregular")
			if err != nil {
				t.Errorf("Load() error = %v", err)
				return
			}
			fonts[i] = f
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(fonts); i++ {
		if fonts[i] != fonts[0] {
			t.Fatal("concurrent Load() returned different fonts")
		}
	}
}
