package pdfdoc

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// deref resolves indirect references, returning nil for anything unresolvable.
func (d *Document) deref(o types.Object) types.Object {
	if o == nil {
		return nil
	}
	obj, err := d.ctx.Dereference(o)
	if err != nil {
		return nil
	}
	return obj
}

func (d *Document) dict(o types.Object) types.Dict {
	switch v := d.deref(o).(type) {
	case types.Dict:
		return v
	case types.StreamDict:
		return v.Dict
	}
	return nil
}

func (d *Document) array(o types.Object) types.Array {
	a, _ := d.deref(o).(types.Array)
	return a
}

func (d *Document) number(o types.Object) (float64, bool) {
	switch v := d.deref(o).(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func (d *Document) name(o types.Object) string {
	n, _ := d.deref(o).(types.Name)
	return string(n)
}

// rect reads a four number array as [llx lly urx ury].
func (d *Document) rect(o types.Object) *types.Rectangle {
	a := d.array(o)
	if len(a) != 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, ok := d.number(a[i])
		if !ok {
			return nil
		}
		v[i] = f
	}
	return types.NewRectangle(min(v[0], v[2]), min(v[1], v[3]), max(v[0], v[2]), max(v[1], v[3]))
}

// streamContent returns the decoded bytes of a stream object.
func (d *Document) streamContent(o types.Object) ([]byte, error) {
	sd, _, err := d.ctx.DereferenceStreamDict(o)
	if err != nil || sd == nil {
		return nil, err
	}
	if len(sd.Content) == 0 && len(sd.Raw) > 0 {
		if err := sd.Decode(); err != nil {
			return nil, err
		}
	}
	return sd.Content, nil
}
