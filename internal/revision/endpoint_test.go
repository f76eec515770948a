package revision

import "testing"

func TestEndpointEqual(t *testing.T) {
	t.Parallel()

	if !Commit(headHash).Equal(Commit(headHash)) {
		t.Fatal("identical commit hashes should be equal")
	}
	if Commit(headHash).Equal(Commit(otherHash)) {
		t.Fatal("different commit hashes should not be equal")
	}
	if !Local().Equal(Local()) || !NullTree().Equal(NullTree()) {
		t.Fatal("local and null-tree endpoints compare by variant")
	}
	if !Stage(0).Equal(Stage(0)) {
		t.Fatal("same stage numbers should be equal")
	}
	if Stage(1).Equal(Stage(2)) {
		t.Fatal("different stage numbers should not be equal")
	}
	if Local().Equal(NullTree()) || Commit(headHash).Equal(Local()) {
		t.Fatal("different variants should never be equal")
	}
}

func TestEndpointString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   Endpoint
		want string
	}{
		{Commit(headHash), headHash[:12]},
		{Commit("abc123"), "abc123"},
		{Local(), "LOCAL"},
		{Stage(0), "STAGE"},
		{Stage(2), "STAGE:2"},
		{NullTree(), "NULL_TREE"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}
