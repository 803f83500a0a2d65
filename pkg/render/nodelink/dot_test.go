package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/schema"
)

const shop = `
Table users {
  id int [pk]
}
Table orders {
  id int [pk]
  user_id int
}
Ref: orders.user_id > users.id
Ref: orders.id > coupons.order_id
`

func shopGraph() erd.Graph { return erd.Build(schema.Parse(shop)) }

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(shopGraph(), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`"users" [label="users"]`,
		`"orders" -> "users"`,
		"arrowtail=tee",
		`label="1:N"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
}

func TestToDOT_Direction(t *testing.T) {
	dot := ToDOT(shopGraph(), Options{Direction: layout.TB})
	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("ToDOT() ignored direction")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(shopGraph(), Options{Detailed: true})
	if !strings.Contains(dot, `user_id int`) {
		t.Error("ToDOT() detailed output missing columns")
	}
	if !strings.Contains(dot, `id int (pk)`) {
		t.Error("ToDOT() detailed output missing primary key marker")
	}
}

func TestToDOT_DanglingPlaceholder(t *testing.T) {
	dot := ToDOT(shopGraph(), Options{})
	if !strings.Contains(dot, `"coupons" [style="rounded,filled,dashed"`) {
		t.Errorf("ToDOT() missing placeholder for undeclared table:\n%s", dot)
	}
	if strings.Count(dot, `"coupons" [`) != 1 {
		t.Error("placeholder declared more than once")
	}
}

func TestFmtLabel(t *testing.T) {
	n := erd.Node{ID: "users", Table: schema.Table{Name: "users", Columns: []schema.Column{
		{Name: "id", Type: "int", Attributes: []string{"pk"}},
		{Name: "email", Type: "varchar"},
	}}}
	if got := fmtLabel(n, false); got != "users" {
		t.Errorf("fmtLabel() simple = %q", got)
	}
	if got, want := fmtLabel(n, true), "users\nid int (pk)\nemail varchar"; got != want {
		t.Errorf("fmtLabel() detailed = %q, want %q", got, want)
	}
}

func TestArrow(t *testing.T) {
	if arrow(erd.EndMany) != "crow" || arrow(erd.EndOne) != "tee" {
		t.Error("arrow() mapping wrong")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(shopGraph(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
