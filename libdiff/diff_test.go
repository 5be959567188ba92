package libdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
)

func parse(t *testing.T, s string) *node.Node {
	t.Helper()
	n, err := format.ParseBytes([]byte(s), format.XMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func changeStrings(cs []Change) []string {
	res := make([]string, len(cs))
	for i := range cs {
		res[i] = cs[i].String()
	}
	return res
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{
			name: "equal",
			from: `<S><entry key="A">1</entry></S>`,
			to:   `<S><entry key="A">1</entry></S>`,
		},
		{
			name: "changed text",
			from: `<S><entry key="A">1</entry><entry key="B">x</entry></S>`,
			to:   `<S><entry key="A">2</entry><entry key="B">x</entry></S>`,
			want: []string{`~ A: "1" -> "2"`},
		},
		{
			name: "added and removed keys",
			from: `<S><entry key="A">1</entry><entry key="B">2</entry><entry key="C">3</entry></S>`,
			to:   `<S><entry key="A">1</entry><entry key="C">3</entry><entry key="D">4</entry></S>`,
			want: []string{`- B: "2"`, `+ D: "4"`},
		},
		{
			name: "nested",
			from: `<S><entry key="Inner"><entry key="X">1</entry></entry></S>`,
			to:   `<S><entry key="Inner"><entry key="X">5</entry></entry></S>`,
			want: []string{`~ Inner.X: "1" -> "5"`},
		},
		{
			name: "sequence growth",
			from: `<S><entry key="L"><Pose><X>1</X></Pose><Pose><X>3</X></Pose></entry></S>`,
			to:   `<S><entry key="L"><Pose><X>1</X></Pose><Pose><X>2</X></Pose><Pose><X>3</X></Pose></entry></S>`,
			want: []string{`~ L[1].X: "3" -> "2"`, `+ L[2]: {1}`},
		},
		{
			name: "type change",
			from: `<S><entry key="V" type="int">1</entry></S>`,
			to:   `<S><entry key="V" type="string">1</entry></S>`,
			want: []string{`~ V: "1" -> "1"`},
		},
		{
			name: "legacy entries align with attribute entries",
			from: `<S><entry><key>A</key><value>1</value></entry></S>`,
			to:   `<S><entry key="A">1</entry></S>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := changeStrings(Diff(parse(t, tt.from), parse(t, tt.to)))
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextDiff(t *testing.T) {
	tests := []struct {
		from, to, want string
	}{
		{"hello world", "hello there", "hello [-world-]{+there+}"},
		{"same", "same", "same"},
		{"a\nb\nc\n", "a\nB\nc\n", "a\n[-b\n-]{+B\n+}c\n"},
	}
	for _, tt := range tests {
		if got := TextDiff(tt.from, tt.to); got != tt.want {
			t.Errorf("TextDiff(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}
