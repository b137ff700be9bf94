// Package kql builds pipe-stage queries as text.
//
// A pipeline starts from a table and gains one stage per call:
//
//	q := kql.Query("StormEvents").
//		Where(kql.Col("State").Eq("WA"), kql.Col("DamageProperty").Gt(100000)).
//		Project("State", "EventType", "DamageProperty").
//		Limit(10)
//
// renders as
//
//	StormEvents
//	| where State == 'WA' and DamageProperty > 100000
//	| project
//		State,
//		EventType,
//		DamageProperty
//	| limit 10
//
// TableExpr and Expr are immutable values. Every stage call returns a new
// TableExpr and leaves the receiver untouched, so a partial pipeline can be
// shared as the base of several continuations, including across goroutines.
//
// Invalid arguments are detected when a stage is attached. The error is kept
// on the returned TableExpr, reported by Err, and carried through every later
// stage call and Render.
package kql
