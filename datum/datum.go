// Package datum implements the immutable document values the query engine
// operates on: null, bool, number, string, array and object. Documents are
// the common currency between the write evaluators and the table layer;
// they are never mutated in place, every transformation produces a new
// value. The zero Datum means "missing" and is distinct from null.
package datum

import (
	"encoding/json"
	"sort"

	"github.com/samuelmolinski/rethinkdb/errors"
)

// Type enumerates the structural types a Datum can carry.
// The zero Type marks a missing datum.
type Type int

const (
	TypeNull Type = iota + 1
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

// String returns the type name used in error messages.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeBool:
		return "BOOL"
	case TypeNumber:
		return "NUMBER"
	case TypeString:
		return "STRING"
	case TypeArray:
		return "ARRAY"
	case TypeObject:
		return "OBJECT"
	default:
		return "MISSING"
	}
}

// Datum is one immutable document value. Callers must not mutate slices or
// maps they passed to a constructor, nor values handed back by accessors.
type Datum struct {
	typ     Type
	boolVal bool
	numVal  float64
	strVal  string
	arrVal  []Datum
	objVal  map[string]Datum
}

// Null returns the null datum.
func Null() Datum { return Datum{typ: TypeNull} }

// Bool returns a boolean datum.
func Bool(b bool) Datum { return Datum{typ: TypeBool, boolVal: b} }

// Number returns a numeric datum.
func Number(n float64) Datum { return Datum{typ: TypeNumber, numVal: n} }

// String returns a string datum.
func String(s string) Datum { return Datum{typ: TypeString, strVal: s} }

// Array returns an array datum holding a copy of items.
func Array(items []Datum) Datum {
	arr := make([]Datum, len(items))
	copy(arr, items)
	return Datum{typ: TypeArray, arrVal: arr}
}

// Object returns an object datum holding a copy of fields.
func Object(fields map[string]Datum) Datum {
	obj := make(map[string]Datum, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Datum{typ: TypeObject, objVal: obj}
}

// objectOwned wraps an already-private field map without copying.
func objectOwned(fields map[string]Datum) Datum {
	return Datum{typ: TypeObject, objVal: fields}
}

// Has reports whether the datum is present. The zero Datum is missing.
func (d Datum) Has() bool { return d.typ != 0 }

// Type returns the datum's structural type.
func (d Datum) Type() Type { return d.typ }

// IsNull reports whether the datum is the null value.
func (d Datum) IsNull() bool { return d.typ == TypeNull }

// BoolVal returns the boolean value. Valid only for TypeBool.
func (d Datum) BoolVal() bool { return d.boolVal }

// NumVal returns the numeric value. Valid only for TypeNumber.
func (d Datum) NumVal() float64 { return d.numVal }

// StrVal returns the string value. Valid only for TypeString.
func (d Datum) StrVal() string { return d.strVal }

// Len returns the element count for arrays and the field count for objects.
func (d Datum) Len() int {
	switch d.typ {
	case TypeArray:
		return len(d.arrVal)
	case TypeObject:
		return len(d.objVal)
	default:
		return 0
	}
}

// Index returns the i-th array element. Valid only for TypeArray.
func (d Datum) Index(i int) Datum { return d.arrVal[i] }

// Field looks up an object field. The second return is false when the field
// is absent or the datum is not an object.
func (d Datum) Field(key string) (Datum, bool) {
	if d.typ != TypeObject {
		return Datum{}, false
	}
	v, ok := d.objVal[key]
	return v, ok
}

// Keys returns the object's field names in sorted order.
func (d Datum) Keys() []string {
	keys := make([]string, 0, len(d.objVal))
	for k := range d.objVal {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports deep structural equality.
func (d Datum) Equal(other Datum) bool {
	if d.typ != other.typ {
		return false
	}
	switch d.typ {
	case TypeBool:
		return d.boolVal == other.boolVal
	case TypeNumber:
		return d.numVal == other.numVal
	case TypeString:
		return d.strVal == other.strVal
	case TypeArray:
		if len(d.arrVal) != len(other.arrVal) {
			return false
		}
		for i := range d.arrVal {
			if !d.arrVal[i].Equal(other.arrVal[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(d.objVal) != len(other.objVal) {
			return false
		}
		for k, v := range d.objVal {
			ov, ok := other.objVal[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Native converts the datum to the encoding/json value model.
func (d Datum) Native() interface{} {
	switch d.typ {
	case TypeBool:
		return d.boolVal
	case TypeNumber:
		return d.numVal
	case TypeString:
		return d.strVal
	case TypeArray:
		out := make([]interface{}, len(d.arrVal))
		for i, v := range d.arrVal {
			out[i] = v.Native()
		}
		return out
	case TypeObject:
		out := make(map[string]interface{}, len(d.objVal))
		for k, v := range d.objVal {
			out[k] = v.Native()
		}
		return out
	default:
		return nil
	}
}

// FromNative builds a datum from the encoding/json value model.
func FromNative(v interface{}) (Datum, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case int:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Datum{}, errors.Wrapf(err, "cannot convert number %q", val.String())
		}
		return Number(f), nil
	case string:
		return String(val), nil
	case []interface{}:
		arr := make([]Datum, len(val))
		for i, item := range val {
			d, err := FromNative(item)
			if err != nil {
				return Datum{}, err
			}
			arr[i] = d
		}
		return Datum{typ: TypeArray, arrVal: arr}, nil
	case map[string]interface{}:
		obj := make(map[string]Datum, len(val))
		for k, item := range val {
			d, err := FromNative(item)
			if err != nil {
				return Datum{}, err
			}
			obj[k] = d
		}
		return objectOwned(obj), nil
	default:
		return Datum{}, errors.Newf("cannot convert %T to a datum", v)
	}
}

// FromJSON decodes a JSON document into a datum.
func FromJSON(data []byte) (Datum, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return Datum{}, errors.Wrap(err, "failed to decode document")
	}
	return FromNative(v)
}

// MarshalJSON implements json.Marshaler. A missing datum encodes as null.
func (d Datum) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Native())
}

// String returns the compact JSON rendering, for error messages and logs.
func (d Datum) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return "<invalid datum>"
	}
	return string(b)
}
