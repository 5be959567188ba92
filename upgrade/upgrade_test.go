package upgrade

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
)

func parse(t *testing.T, s string) *node.Node {
	t.Helper()
	n, err := format.ParseBytes([]byte(s), format.XMLFormat)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestEdits(t *testing.T) {
	const doc = `<S>
  <entry key="Colour">red</entry>
  <entry key="Zoom">2</entry>
  <entry><key>Old</key><value>legacy</value></entry>
  <entry key="Inner"><entry key="Deep">x</entry></entry>
</S>`
	tests := []struct {
		name string
		edit Edit
		want string
	}{
		{
			name: "rename",
			edit: Rename("Colour", "Color"),
			want: `<S><entry key="Color">red</entry><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry></S>`,
		},
		{
			name: "rename legacy",
			edit: Rename("Old", "New"),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">2</entry><entry key="New">legacy</entry><entry key="Inner"><entry key="Deep">x</entry></entry></S>`,
		},
		{
			name: "rename missing",
			edit: Rename("Nope", "X"),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry></S>`,
		},
		{
			name: "remove nested",
			edit: Remove("Inner.Deep"),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"/></S>`,
		},
		{
			name: "set text nested",
			edit: SetText("Inner.Deep", "y"),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">y</entry></entry></S>`,
		},
		{
			name: "set default existing",
			edit: SetDefault("Zoom", "1"),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry></S>`,
		},
		{
			name: "set default missing",
			edit: SetDefault("Speed", "3"),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry><entry key="Speed">3</entry></S>`,
		},
		{
			name: "expr",
			edit: Expr("Zoom", `int(value) * 50`),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">100</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry></S>`,
		},
		{
			name: "expr siblings",
			edit: Expr("Label", `Colour + "/" + Zoom`),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry><entry key="Label">red/2</entry></S>`,
		},
		{
			name: "expr nil removes",
			edit: Expr("Colour", `nil`),
			want: `<S><entry key="Zoom">2</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry></S>`,
		},
		{
			name: "json patch",
			edit: JSONPatch(`[{"op":"replace","path":"/children/1/text","value":"9"}]`),
			want: `<S><entry key="Colour">red</entry><entry key="Zoom">9</entry><entry><key>Old</key><value>legacy</value></entry><entry key="Inner"><entry key="Deep">x</entry></entry></S>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parse(t, doc)
			if err := tt.edit(root); err != nil {
				t.Fatalf("edit: %v", err)
			}
			want := parse(t, tt.want)
			if !node.Equal(root, want) {
				t.Errorf("got\n%s\nwant\n%s", root, want)
			}
		})
	}
}

func TestEditErrors(t *testing.T) {
	root := parse(t, `<S><entry key="A">1</entry></S>`)
	for name, edit := range map[string]Edit{
		"bad path":       Rename("A..B", "C"),
		"missing parent": SetText("X.Y", "1"),
		"bad expr":       Expr("A", `1 +`),
		"bad patch":      JSONPatch(`{`),
		"failing patch":  JSONPatch(`[{"op":"remove","path":"/children/7"}]`),
	} {
		if err := edit(root); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestChainApply(t *testing.T) {
	var order []string
	record := func(s string) Edit {
		return func(*node.Node) error {
			order = append(order, s)
			return nil
		}
	}
	chain := NewChain().
		Register("1", Step{To: "2", Edits: []Edit{record("1a"), record("1b")}}).
		Register("2", Step{To: "3", Edits: []Edit{record("2")}}).
		Register("0", Step{To: "1", Edits: []Edit{record("0")}})
	root := node.New("S")
	if err := chain.Apply(root, "1", "3"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1a", "1b", "2"}, order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}

	order = nil
	if err := chain.Apply(root, "3", "3"); err != nil || len(order) != 0 {
		t.Errorf("current version: err=%v order=%v", err, order)
	}

	if err := chain.Apply(root, "7", "3"); !errors.Is(err, ErrUnsupportedUpgrade) {
		t.Errorf("gap: err = %v, want ErrUnsupportedUpgrade", err)
	}

	loop := NewChain().Register("a", Step{To: "b"}).Register("b", Step{To: "a"})
	if err := loop.Apply(root, "a", "c"); !errors.Is(err, ErrUnsupportedUpgrade) {
		t.Errorf("cycle: err = %v, want ErrUnsupportedUpgrade", err)
	}

	boom := errors.New("boom")
	failing := NewChain().Register("1", Step{To: "2", Edits: []Edit{func(*node.Node) error { return boom }}})
	if err := failing.Apply(root, "1", "2"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
