package sink_test

import (
	"fmt"

	"github.com/matzehuels/texatlas/pkg/atlas"
	"github.com/matzehuels/texatlas/pkg/sink"
)

func ExampleNewManifest() {
	layout, err := atlas.Pack([]atlas.Size{{Width: 30, Height: 30}})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	m := sink.NewManifest(layout, sink.WithNames([]string{"hero"}), sink.WithSource("atlas.png"))
	hero, _ := m.Lookup("hero")
	fmt.Println(m.Image, m.Dimension)
	fmt.Printf("%s at (%d,%d) uv=(%v,%v) size=(%v,%v)\n", hero.Name, hero.X, hero.Y, hero.U, hero.V, hero.UW, hero.VH)
	// Output:
	// atlas.png 32
	// hero at (1,1) uv=(0.03125,0.03125) size=(0.9375,0.9375)
}
