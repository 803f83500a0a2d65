package layout

import (
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/schema"
)

const blog = `
Table users {
  id int [pk]
  email varchar
}
Table posts {
  id int [pk]
  author_id int
  title varchar
}
Table comments {
  id int [pk]
  post_id int
  user_id int
}
Table tags {
  id int [pk]
}
Table post_tags {
  post_id int
  tag_id int
  indexes {
    (post_id, tag_id) [pk]
  }
}
Table audit {
  id int
  user_id int
}
Ref: users.id < posts.author_id
Ref: posts.id < comments.post_id
Ref: users.id < comments.user_id
Ref: posts.id <> tags.id
Ref: post_tags.post_id > posts.id
Ref: post_tags.tag_id > tags.id
Ref: audit.user_id > users.id
Ref: users.id - audit.user_id
Ref: comments.id - comments.id
Ref: users.id > ghosts.user_id
`

func blogGraph() erd.Graph { return erd.Build(schema.Parse(blog)) }

func TestCompute_Empty(t *testing.T) {
	res := Compute(erd.Build(schema.Parse("")), DefaultConfig())
	if len(res.Nodes) != 0 || len(res.Edges) != 0 {
		t.Fatalf("Compute(empty) = %+v", res)
	}
	data, err := json.Marshal(struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}{res.Nodes, res.Edges})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"nodes":[],"edges":[]}`; got != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	for _, dir := range []Direction{LR, TB} {
		t.Run(string(dir), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Direction = dir
			first := Compute(blogGraph(), cfg)
			for range 5 {
				if got := Compute(blogGraph(), cfg); !reflect.DeepEqual(got, first) {
					t.Fatal("Compute returned different results for identical input")
				}
			}
		})
	}
}

func TestCompute_SameRankSeparation(t *testing.T) {
	configs := map[string]Config{
		"default LR": DefaultConfig(),
		"default TB": func() Config { c := DefaultConfig(); c.Direction = TB; return c }(),
		"tight":      {Direction: TB, NodeSep: 0, RankSep: 0, EdgeSep: 0, Margin: 0, Padding: 0},
		"wide":       {Direction: LR, NodeSep: 250, RankSep: 10, EdgeSep: 5, Margin: 7, Padding: 3},
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			res := Compute(blogGraph(), cfg)
			byRank := map[int][]Node{}
			for _, n := range res.Nodes {
				byRank[n.Rank] = append(byRank[n.Rank], n)
			}
			for rank, nodes := range byRank {
				slices.SortFunc(nodes, func(a, b Node) int { return a.Order - b.Order })
				for i := 0; i+1 < len(nodes); i++ {
					a, b := nodes[i], nodes[i+1]
					ax, ay := a.Rect().Center()
					bx, by := b.Rect().Center()
					dist, need := by-ay, a.Height/2+cfg.NodeSep+b.Height/2
					if cfg.Direction == TB {
						dist, need = bx-ax, a.Width/2+cfg.NodeSep+b.Width/2
					}
					if dist < need-1e-9 {
						t.Errorf("rank %d: %s and %s are %.2f apart, need %.2f", rank, a.ID, b.ID, dist, need)
					}
				}
			}
		})
	}
}

func TestCompute_RanksFlowInDirection(t *testing.T) {
	for _, dir := range []Direction{LR, TB} {
		t.Run(string(dir), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Direction = dir
			res := Compute(blogGraph(), cfg)
			for _, e := range res.Edges {
				if e.Dangling || e.Source == e.Target {
					continue
				}
				src, _ := res.Node(e.Source)
				dst, _ := res.Node(e.Target)
				if !e.Reversed && src.Rank >= dst.Rank {
					t.Errorf("edge %s: rank %d -> %d", e.ID, src.Rank, dst.Rank)
				}
				if e.Reversed && src.Rank <= dst.Rank {
					t.Errorf("reversed edge %s: rank %d -> %d", e.ID, src.Rank, dst.Rank)
				}
				sp, dp := src.X, dst.X
				if dir == TB {
					sp, dp = src.Y, dst.Y
				}
				if (src.Rank < dst.Rank) != (sp < dp) {
					t.Errorf("edge %s: rank order and coordinate order disagree", e.ID)
				}
			}
		})
	}
}

func TestCompute_CyclesAndSelfLoops(t *testing.T) {
	res := Compute(blogGraph(), DefaultConfig())

	if len(res.Nodes) != 6 {
		t.Fatalf("nodes = %d, want 6", len(res.Nodes))
	}
	if len(res.Edges) != 10 {
		t.Fatalf("edges = %d, want all 10 relationships", len(res.Edges))
	}
	reversed := 0
	for _, e := range res.Edges {
		if e.Reversed {
			reversed++
		}
		if e.Source == "comments" && e.Target == "comments" && !e.Reversed {
			t.Error("self-reference should be flagged reversed")
		}
		if e.Target == "ghosts" && !e.Dangling {
			t.Error("edge to ghosts should stay dangling")
		}
	}
	// users <-> audit forms a cycle, comments references itself.
	if reversed != 2 {
		t.Errorf("reversed edges = %d, want 2", reversed)
	}
}

func TestCompute_Margin(t *testing.T) {
	for _, dir := range []Direction{LR, TB} {
		cfg := DefaultConfig()
		cfg.Direction = dir
		res := Compute(blogGraph(), cfg)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, n := range res.Nodes {
			minX, minY = min(minX, n.X), min(minY, n.Y)
			maxX = max(maxX, n.X+n.Width+cfg.Padding)
			maxY = max(maxY, n.Y+n.Height+cfg.Padding)
		}
		if math.Abs(minX-cfg.Margin) > 1e-9 || math.Abs(minY-cfg.Margin) > 1e-9 {
			t.Errorf("%s: top-left = (%v, %v), want margin %v", dir, minX, minY, cfg.Margin)
		}
		if maxX > res.Width-cfg.Margin+1e-9 || maxY > res.Height-cfg.Margin+1e-9 {
			t.Errorf("%s: content (%v, %v) exceeds size %vx%v minus margin", dir, maxX, maxY, res.Width, res.Height)
		}
	}
}

func TestCompute_NoCrossingsForTree(t *testing.T) {
	s := schema.Parse(`
Table a {
 id int
}
Table b {
 id int
}
Table c {
 id int
}
Table d {
 id int
}
Table e {
 id int
}
Ref: a.id > d.id
Ref: b.id > c.id
Ref: a.id > e.id
Ref: b.id > e.id
`)
	res := Compute(erd.Build(s), DefaultConfig())
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
}

func TestCompute_IsolatedTables(t *testing.T) {
	s := schema.Parse("Table a {\n id int\n}\nTable b {\n id int\n}\nTable c {\n id int\n}")
	res := Compute(erd.Build(s), DefaultConfig())
	if res.Ranks != 1 {
		t.Errorf("Ranks = %d, want 1", res.Ranks)
	}
	for i, n := range res.Nodes {
		if n.Order != i {
			t.Errorf("%s order = %d, want %d", n.ID, n.Order, i)
		}
	}
}

func TestCompute_OrderCountsTablesOnly(t *testing.T) {
	// c->a spans two ranks, so a virtual node shares a rank with b.
	long := schema.Parse(`Table a {
  id int
}
Table b {
  a_id int
}
Table c {
  a_id int
  b_id int
}
Table d {
  a_id int
}
Ref: b.a_id > a.id
Ref: c.b_id > b.id
Ref: c.a_id > a.id
Ref: d.a_id > a.id`)

	for name, g := range map[string]erd.Graph{"long edge": erd.Build(long), "blog": blogGraph()} {
		t.Run(name, func(t *testing.T) {
			byRank := map[int][]int{}
			for _, n := range Compute(g, DefaultConfig()).Nodes {
				byRank[n.Rank] = append(byRank[n.Rank], n.Order)
			}
			for rank, orders := range byRank {
				slices.Sort(orders)
				for i, o := range orders {
					if o != i {
						t.Errorf("rank %d orders = %v, want 0..%d", rank, orders, len(orders)-1)
						break
					}
				}
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		code errors.Code
	}{
		{"default", func(*Config) {}, ""},
		{"top to bottom", func(c *Config) { c.Direction = TB }, ""},
		{"zero spacing", func(c *Config) { c.NodeSep, c.RankSep, c.Margin = 0, 0, 0 }, ""},
		{"bad direction", func(c *Config) { c.Direction = "RL" }, errors.ErrCodeInvalidDirection},
		{"negative node sep", func(c *Config) { c.NodeSep = -1 }, errors.ErrCodeInvalidSpacing},
		{"negative rank sep", func(c *Config) { c.RankSep = -0.5 }, errors.ErrCodeInvalidSpacing},
		{"nan margin", func(c *Config) { c.Margin = math.NaN() }, errors.ErrCodeInvalidSpacing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q (%v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestPlaceRank(t *testing.T) {
	tests := []struct {
		name    string
		targets []float64
		gaps    []float64
		want    []float64
	}{
		{"feasible targets kept", []float64{0, 20, 50}, []float64{10, 10}, []float64{0, 20, 50}},
		{"collapsed targets spread around mean", []float64{0, 0, 0}, []float64{10, 10}, []float64{-10, 0, 10}},
		{"partial conflict", []float64{0, 5, 100}, []float64{10, 10}, []float64{-2.5, 7.5, 100}},
		{"single", []float64{3}, nil, []float64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placeRank(tt.targets, tt.gaps)
			if len(got) != len(tt.want) {
				t.Fatalf("placeRank() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("placeRank() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestPositions(t *testing.T) {
	p := NewPositions()
	p.Set("b", Rect{X: 1, Y: 2, Width: 3, Height: 4})
	p.Set("a", Rect{X: 5, Y: 6, Width: 7, Height: 8})
	p.Set("b", Rect{X: 9, Y: 9, Width: 3, Height: 4})

	if got := p.IDs(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("IDs() = %v, want [b a]", got)
	}
	if !p.Move("a", 0, 0) || p.Move("missing", 1, 1) {
		t.Error("Move should succeed only for stored IDs")
	}
	if r, _ := p.Get("a"); r != (Rect{X: 0, Y: 0, Width: 7, Height: 8}) {
		t.Errorf("Get(a) = %+v", r)
	}

	clone := p.Clone()
	clone.Move("b", 100, 100)
	if r, _ := p.Get("b"); r.X != 9 {
		t.Error("moving in a clone changed the original")
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var back Positions
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Snapshot(), p.Snapshot()) || !slices.Equal(back.IDs(), p.IDs()) {
		t.Errorf("round trip mismatch: %s", data)
	}

	p.Delete("b")
	if p.Len() != 1 {
		t.Errorf("Len() after Delete = %d, want 1", p.Len())
	}
}

func TestResult_Positions(t *testing.T) {
	res := Compute(blogGraph(), DefaultConfig())
	p := res.Positions()
	if p.Len() != len(res.Nodes) {
		t.Fatalf("Len() = %d, want %d", p.Len(), len(res.Nodes))
	}
	for _, n := range res.Nodes {
		if r, ok := p.Get(n.ID); !ok || r != n.Rect() {
			t.Errorf("Get(%s) = %+v, want %+v", n.ID, r, n.Rect())
		}
	}
}
