package schema_test

import (
	"fmt"

	"github.com/matzehuels/schemaflow/pkg/schema"
)

func ExampleParse() {
	s := schema.Parse(`
Table users {
  id int [pk]
  name varchar
}

Table posts {
  id int [pk]
  author_id int
}

Ref: users.id < posts.author_id
`)

	for _, t := range s.Tables() {
		fmt.Println(t.Name, len(t.Columns))
	}
	for _, r := range s.Refs {
		fmt.Printf("%s.%s %s %s.%s\n", r.FromTable, r.FromColumn, r.Relation, r.ToTable, r.ToColumn)
	}
	// Output:
	// users 2
	// posts 2
	// users.id < posts.author_id
}

func ExampleExtractFenced() {
	raw := "Sure!\n```dbml\nTable a {\n  id int\n}\n```"
	fmt.Println(schema.ExtractFenced(raw))
	// Output:
	// Table a {
	//   id int
	// }
}
