package kql

import (
	"errors"

	"github.com/razeghi71/kq/literal"
	"github.com/razeghi71/kq/render"
)

var (
	// ErrInvalidStageArgument is returned when a stage or expression is
	// built from an empty list, a negative count, a duplicate result name
	// or an empty name.
	ErrInvalidStageArgument = errors.New("invalid stage argument")
	// ErrUnsupportedCapability is returned for features that need a live
	// backend, such as schema inspection.
	ErrUnsupportedCapability = errors.New("unsupported capability")
	// ErrUnknownColumn is returned by TableExpr.C when a schema is declared
	// and does not contain the column.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnsupportedLiteralType is returned for values with no literal form.
	ErrUnsupportedLiteralType = literal.ErrUnsupportedType
	// ErrMalformedStage is returned when rendering a stage tree that was
	// not built through this package.
	ErrMalformedStage = render.ErrMalformedStage
)
