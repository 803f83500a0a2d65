package route_test

import (
	"fmt"

	"github.com/matzehuels/schemaflow/pkg/route"
)

func ExampleRoute() {
	users := route.Box{X: 0, Y: 0, Width: 40, Height: 20}
	posts := route.Box{X: 100, Y: 200, Width: 40, Height: 20}

	p := route.Route(users, posts)
	fmt.Println(p.SourceSide, p.TargetSide)
	fmt.Println(p.D)
	fmt.Println(p.Label.X, p.Label.Y)
	// Output:
	// bottom top
	// M20,20 L20,105 Q20,110 25,110 L115,110 Q120,110 120,115 L120,200
	// 70 110
}
