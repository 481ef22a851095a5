package content

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	src := []byte(`q 1 0 0 1 0 0 cm % comment
BT /F1 10 Tf 28.35 -.5 Td (Roll \(A\)\101) Tj [<0041> -250 (B)] TJ ET
/OC <</MCID 3 /Lang (en)>> BDC EMC Q`)

	ops, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, op := range ops {
		got = append(got, op.Operator)
	}
	want := []string{"q", "cm", "BT", "Tf", "Td", "Tj", "TJ", "ET", "BDC", "EMC", "Q"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operators mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]Object{Number(28.35), Number(-0.5)}, ops[4].Operands); diff != "" {
		t.Errorf("Td operands (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Object{String("Roll (A)A")}, ops[5].Operands); diff != "" {
		t.Errorf("Tj operands (-want +got):\n%s", diff)
	}
	tj := Array{HexString{0x00, 0x41}, Number(-250), String("B")}
	if diff := cmp.Diff([]Object{tj}, ops[6].Operands); diff != "" {
		t.Errorf("TJ operands (-want +got):\n%s", diff)
	}
	props := Dict{"MCID": Number(3), "Lang": String("en")}
	if diff := cmp.Diff([]Object{Name("OC"), props}, ops[8].Operands); diff != "" {
		t.Errorf("BDC operands (-want +got):\n%s", diff)
	}
}

func TestSerializeKeepsUnmodifiedBytes(t *testing.T) {
	src := []byte("BT\n/F1   10 Tf\n(  spaced  ) Tj\nET")
	ops, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	ops[2] = NewOperation("TJ", Array{HexString("AB"), Number(-1000.123456)})

	want := "BT\n/F1   10 Tf\n[<4142> -1000.1235] TJ\nET\n"
	if got := string(Serialize(ops)); got != want {
		t.Errorf("Serialize =\n%q\nwant\n%q", got, want)
	}
	if !ops[2].Modified() || ops[1].Modified() {
		t.Error("Modified flag wrong")
	}
}

func TestParseInlineImage(t *testing.T) {
	src := []byte("q BI /W 2 /H 1 /BPC 8 /CS /G ID \x00EI\xff EI Q")
	ops, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 3 || ops[1].Operator != "BI" {
		t.Fatalf("unexpected ops: %v", ops)
	}
	img, ok := ops[1].Operands[0].(InlineImage)
	if !ok {
		t.Fatalf("operand is %T", ops[1].Operands[0])
	}
	if diff := cmp.Diff([]byte("\x00EI\xff"), img.Data); diff != "" {
		t.Errorf("image data (-want +got):\n%s", diff)
	}
	if img.Params["CS"] != Name("G") {
		t.Errorf("CS = %v", img.Params["CS"])
	}
}

func TestParseError(t *testing.T) {
	ops, err := Parse([]byte("BT /F1 12 Tf (unterminated Tj"))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("err = %v, want ErrSyntax", err)
	}
	if len(ops) != 2 {
		t.Errorf("got %d ops before the error, want 2", len(ops))
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{Number(3), "3"},
		{Number(-0.00001), "0"},
		{Name("A B#"), "/A#20B#23"},
		{String("a(b)\n\xe9"), `(a\(b\)\n\351)`},
		{Array{Bool(true), Null{}}, "[true null]"},
	}
	for _, tt := range tests {
		if got := Format(tt.obj); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.obj, got, tt.want)
		}
	}
}
