package detection

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func defaultGeometry() TemplateGeometry {
	return TemplateGeometry{
		Height:    83,
		Width:     770,
		Columns:   200,
		Slope:     0.4,
		Thickness: 10,
		Offset:    555,
	}
}

func TestBuildTemplate_Default(t *testing.T) {
	tmpl, err := BuildTemplate(defaultGeometry())
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}

	rows, cols := tmpl.Dims()
	if rows != 83 || cols != 770 {
		t.Fatalf("dims: got %dx%d, want 83x770", rows, cols)
	}
	if n := tmpl.Cells(); n != 1858 {
		t.Errorf("Cells: got %d, want 1858", n)
	}

	cells := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 1},
		{0, 9, 1},
		{0, 10, 1}, // x=1 still maps to row 0
		{1, 10, 1},
		{0, 555, 1},
		{80, 199, 1},
		{80, 208, 1},
		{80, 209, 0},
		{80, 763, 1},
		{80, 764, 0},
		{82, 0, 0},
	}
	for _, c := range cells {
		if got := tmpl.Kernel.At(c.row, c.col); got != c.want {
			t.Errorf("Kernel(%d,%d): got %v, want %v", c.row, c.col, got, c.want)
		}
	}
}

func TestBuildTemplate_Deterministic(t *testing.T) {
	a, err := BuildTemplate(defaultGeometry())
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}
	b, err := BuildTemplate(defaultGeometry())
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}
	if !mat.Equal(a.Kernel, b.Kernel) {
		t.Error("same geometry produced different kernels")
	}
	if a.Kernel == b.Kernel {
		t.Error("each call should allocate its own kernel")
	}
}

func TestBuildTemplate_Binary(t *testing.T) {
	tmpl, err := BuildTemplate(defaultGeometry())
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}
	rows, cols := tmpl.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if v := tmpl.Kernel.At(y, x); v != 0 && v != 1 {
				t.Fatalf("Kernel(%d,%d) = %v, want 0 or 1", y, x, v)
			}
		}
	}
}

func TestBuildTemplate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TemplateGeometry)
	}{
		{"zero height", func(g *TemplateGeometry) { g.Height = 0 }},
		{"zero width", func(g *TemplateGeometry) { g.Width = 0 }},
		{"zero columns", func(g *TemplateGeometry) { g.Columns = 0 }},
		{"zero thickness", func(g *TemplateGeometry) { g.Thickness = 0 }},
		{"negative offset", func(g *TemplateGeometry) { g.Offset = -1 }},
		{"slope leaves grid", func(g *TemplateGeometry) { g.Slope = 0.5 }},
		{"negative slope", func(g *TemplateGeometry) { g.Slope = -0.4 }},
		{"offset leaves grid", func(g *TemplateGeometry) { g.Offset = 600 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := defaultGeometry()
			tt.mutate(&g)
			if _, err := BuildTemplate(g); err == nil {
				t.Error("BuildTemplate should fail")
			}
		})
	}
}

func TestTemplate_Image(t *testing.T) {
	tmpl, err := BuildTemplate(TemplateGeometry{Height: 3, Width: 8, Columns: 2, Slope: 1, Thickness: 1, Offset: 4})
	if err != nil {
		t.Fatalf("BuildTemplate failed: %v", err)
	}

	img := tmpl.Image()
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 3 {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	for _, p := range [][2]int{{0, 0}, {4, 0}, {1, 1}, {5, 1}} {
		if img.GrayAt(p[0], p[1]).Y != 255 {
			t.Errorf("pixel %v should be set", p)
		}
	}
	if img.GrayAt(2, 2).Y != 0 {
		t.Error("pixel (2,2) should be clear")
	}
	if tmpl.Cells() != 4 {
		t.Errorf("Cells: got %d, want 4", tmpl.Cells())
	}
}
