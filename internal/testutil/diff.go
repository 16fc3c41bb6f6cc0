package testutil

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

// dumper renders values deterministically for diffing: sorted map keys,
// no pointer addresses or capacities.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// DeepEqual fails the test if want and got differ structurally, printing a
// unified diff of their dumped representations. Pointer identity is ignored.
func DeepEqual(t testing.TB, want, got any, msgAndArgs ...any) {
	t.Helper()
	wantDump := dumper.Sdump(want)
	gotDump := dumper.Sdump(got)
	if wantDump == gotDump {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(wantDump),
		B:        difflib.SplitLines(gotDump),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("%s: diff failed: %v", formatMsg(msgAndArgs), err)
	}
	t.Fatalf("%s: values differ (-want +got)\n%s", formatMsg(msgAndArgs), diff)
}
