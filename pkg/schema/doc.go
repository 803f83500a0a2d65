// Package schema parses DBML-like schema text into tables, columns and
// relationships.
//
// # Grammar
//
// The accepted language is intentionally shallow:
//
//	Table users {
//	  id int [pk, increment]
//	  email varchar [unique]
//	}
//
//	Table memberships {
//	  user_id int
//	  group_id int
//	  indexes {
//	    (user_id, group_id) [pk]
//	  }
//	}
//
//	Ref: users.id < memberships.user_id
//
// Each non-blank, non-comment line of a table body is a column: a name, a
// type and an optional bracketed attribute list. An "indexes" sub-block may
// declare a composite primary key, which adds the [PrimaryKey] marker to each
// named column. Relationships use one of the operators "-" (one-to-one),
// ">" (one-to-many), "<" (many-to-one) or "<>" (many-to-many).
//
// # Tolerance
//
// [Parse] never returns an error. Unrecognized text is skipped, and refs may
// name tables or columns that were never declared. Validating a schema is the
// caller's concern.
package schema
