package ast

import "github.com/razeghi71/kq/table"

// Expr represents a scalar expression tree used in stage arguments.
type Expr interface {
	exprNode()
}

// LiteralExpr represents a constant value.
type LiteralExpr struct {
	Value table.Value
}

func (e *LiteralExpr) exprNode() {}

// ColumnExpr references a column by name. The name is rendered unquoted.
type ColumnExpr struct {
	Name string
}

func (e *ColumnExpr) exprNode() {}

// Operator is the operator of a BinaryExpr.
type Operator int

const (
	OpEq Operator = iota
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpHas
	OpContains
	OpStartsWith
	OpIn
)

var operatorText = map[Operator]string{
	OpEq: "==", OpNeq: "!=", OpGt: ">", OpGte: ">=", OpLt: "<", OpLte: "<=",
	OpAnd: "and", OpOr: "or",
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpHas: "has", OpContains: "contains", OpStartsWith: "startswith", OpIn: "in",
}

// String returns the operator's query text, or "" for an unknown operator.
func (op Operator) String() string {
	return operatorText[op]
}

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	_, ok := operatorText[op]
	return ok
}

// BinaryExpr represents a binary operation: a op b.
type BinaryExpr struct {
	Op    Operator
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) exprNode() {}

// FuncCallExpr represents a function call: func(arg1, arg2, ...).
type FuncCallExpr struct {
	Name string
	Args []Expr
}

func (e *FuncCallExpr) exprNode() {}

// Assignment represents "name=expr" in project, extend and summarize.
// In a project list an empty Column means the expression stands alone.
type Assignment struct {
	Column string
	Expr   Expr
}

// SortOrder is the optional direction suffix of a sort key.
type SortOrder int

const (
	OrderDefault SortOrder = iota // no suffix; the backend decides
	OrderAsc
	OrderDesc
)

// SortKey is one column of an order by or top clause.
type SortKey struct {
	Column string
	Order  SortOrder
}

// --- Operations (pipeline stages) ---

// Op represents a single stage in the pipeline.
type Op interface {
	opNode()
}

// SourceOp is the tabular source the pipeline starts from. Ref, when set,
// is the fully rendered reference (qualified name or inline datatable) and
// replaces Name on the first line.
type SourceOp struct {
	Name string
	Ref  string
}

func (o *SourceOp) opNode() {}

// ProjectOp keeps the listed columns or expressions.
type ProjectOp struct {
	Columns []Assignment
}

func (o *ProjectOp) opNode() {}

// WhereOp filters rows; multiple conditions are an implicit conjunction.
type WhereOp struct {
	Conditions []Expr
}

func (o *WhereOp) opNode() {}

// SummarizeOp aggregates, optionally grouping by columns.
type SummarizeOp struct {
	Aggregations []Assignment
	By           []string
}

func (o *SummarizeOp) opNode() {}

// ExtendOp creates or overwrites columns with computed values.
type ExtendOp struct {
	Assignments []Assignment
}

func (o *ExtendOp) opNode() {}

// SortOp orders rows by columns.
type SortOp struct {
	Keys []SortKey
}

func (o *SortOp) opNode() {}

// LimitOp returns at most N rows.
type LimitOp struct {
	N int
}

func (o *LimitOp) opNode() {}

// TakeOp returns at most N arbitrary rows.
type TakeOp struct {
	N int
}

func (o *TakeOp) opNode() {}

// DistinctOp deduplicates rows over the listed columns.
type DistinctOp struct {
	Columns []string
}

func (o *DistinctOp) opNode() {}

// CountOp returns a single-row table with the row count.
type CountOp struct{}

func (o *CountOp) opNode() {}

// TopOp returns the first N rows ordered by Key.
type TopOp struct {
	N   int
	Key SortKey
}

func (o *TopOp) opNode() {}

// Query represents a full pipeline: source + ordered stages.
type Query struct {
	Source *SourceOp
	Ops    []Op
}
