package kql

import (
	"fmt"

	"github.com/razeghi71/kq/literal"
)

// ClusterRef names a cluster. It does not connect to anything.
type ClusterRef struct {
	name string
}

// Cluster returns a reference to the named cluster.
func Cluster(name string) ClusterRef {
	return ClusterRef{name: name}
}

// Database returns a database in the cluster.
func (c ClusterRef) Database(name string) DatabaseRef {
	return DatabaseRef{cluster: c.name, name: name, qualified: true}
}

func (c ClusterRef) String() string {
	return "cluster(" + literal.Quote(c.name) + ")"
}

// DatabaseRef names a database, optionally inside a cluster, and qualifies
// table references with it.
type DatabaseRef struct {
	cluster   string
	name      string
	qualified bool
}

// Database returns a database reference without a cluster prefix.
func Database(name string) DatabaseRef {
	return DatabaseRef{name: name}
}

// Table starts a pipeline from a table in the database.
func (d DatabaseRef) Table(name string, columns ...Column) TableExpr {
	t := newTable(name, d, columns)
	switch {
	case t.err != nil:
	case d.name == "":
		t.err = fmt.Errorf("%w: empty database name", ErrInvalidStageArgument)
	case d.qualified && d.cluster == "":
		t.err = fmt.Errorf("%w: empty cluster name", ErrInvalidStageArgument)
	}
	return t
}

// TableRef renders the qualified reference to a table:
// cluster('c').database('d').['T'] or database('d').['T'].
func (d DatabaseRef) TableRef(name string) string {
	return d.String() + ".[" + literal.Quote(name) + "]"
}

// Inspect would read the table schema from a live backend. Query-only
// builders have no backend, so it always fails.
func (d DatabaseRef) Inspect(name string) ([]Column, error) {
	return nil, fmt.Errorf("%w: inspecting %s requires a live connection", ErrUnsupportedCapability, d.TableRef(name))
}

func (d DatabaseRef) String() string {
	db := "database(" + literal.Quote(d.name) + ")"
	if !d.qualified {
		return db
	}
	return Cluster(d.cluster).String() + "." + db
}
