// Package revision turns raw revision expressions into typed comparison
// endpoints.
package revision

import "fmt"

// Kind discriminates the endpoint variants of a comparison.
type Kind uint8

const (
	// KindCommit is an immutable, content-addressed commit.
	KindCommit Kind = iota
	// KindLocal is the live working tree.
	KindLocal
	// KindStage is a numbered index slot: 0 is the merged index, 1-3 the
	// conflict sides.
	KindStage
	// KindNullTree is the empty-tree sentinel used as the missing side of
	// a diff against the very first commit.
	KindNullTree
)

// Endpoint is one side of a comparison. The zero value is not meaningful;
// use the constructors.
type Endpoint struct {
	kind  Kind
	hash  string
	stage int
}

func Commit(hash string) Endpoint { return Endpoint{kind: KindCommit, hash: hash} }
func Local() Endpoint             { return Endpoint{kind: KindLocal} }
func Stage(n int) Endpoint        { return Endpoint{kind: KindStage, stage: n} }
func NullTree() Endpoint          { return Endpoint{kind: KindNullTree} }

func (e Endpoint) Kind() Kind { return e.kind }

// Hash returns the commit hash; empty for every other variant.
func (e Endpoint) Hash() string { return e.hash }

// StageNumber returns the index slot; zero for every other variant.
func (e Endpoint) StageNumber() int { return e.stage }

// Equal reports endpoint identity: hash equality for commits, variant plus
// stage number otherwise.
func (e Endpoint) Equal(o Endpoint) bool {
	if e.kind != o.kind {
		return false
	}
	switch e.kind {
	case KindCommit:
		return e.hash == o.hash
	case KindStage:
		return e.stage == o.stage
	case KindLocal, KindNullTree:
		return true
	}
	return false
}

func (e Endpoint) String() string {
	switch e.kind {
	case KindCommit:
		if len(e.hash) > 12 {
			return e.hash[:12]
		}
		return e.hash
	case KindLocal:
		return "LOCAL"
	case KindStage:
		if e.stage == 0 {
			return "STAGE"
		}
		return fmt.Sprintf("STAGE:%d", e.stage)
	case KindNullTree:
		return "NULL_TREE"
	}
	return "INVALID"
}

// ComparisonSpec is a resolved pair of endpoints. Left and Right are never
// both the null tree.
type ComparisonSpec struct {
	Left  Endpoint
	Right Endpoint
}

func (c ComparisonSpec) String() string {
	return fmt.Sprintf("%s..%s", c.Left, c.Right)
}
