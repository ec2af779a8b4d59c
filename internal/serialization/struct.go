package serialization

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnresolved is returned when the type with given package path and name does not exist.
// Go compiler erases unused and unimported types, so the receiver of a serialized struct
// needs to import the package declaring the concrete type.
var ErrUnresolved = errors.New("unresolved type")

type structDesc struct {
	PkgPath string      `json:"pkgPath"`
	Name    string      `json:"name"`
	Data    interface{} `json:"data"`
}

// SerializeStruct encodes v along with its package path and type name,
// so that DeserializeStruct can reconstruct the concrete type on a remote process.
func SerializeStruct(v interface{}) ([]byte, error) {
	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return json.Marshal(structDesc{
		PkgPath: typ.PkgPath(),
		Name:    typ.Name(),
		Data:    v,
	})
}

// DeserializeStruct decodes data produced by SerializeStruct, resolving the concrete
// type by its package path and name. Returns a pointer to the decoded value.
func DeserializeStruct(data []byte) (interface{}, error) {
	desc := new(struct {
		PkgPath string              `json:"pkgPath"`
		Name    string              `json:"name"`
		Data    jsoniter.RawMessage `json:"data"`
	})
	if err := json.Unmarshal(data, desc); err != nil {
		return nil, errors.Wrap(err, "deserialize descriptor")
	}
	typ := reflect2.TypeByPackageName(desc.PkgPath, desc.Name)
	if typ == nil {
		return nil, errors.Wrapf(ErrUnresolved, "resolve %s.(%s)", desc.PkgPath, desc.Name)
	}
	v := typ.New()
	if err := json.Unmarshal(desc.Data, v); err != nil {
		return nil, errors.Wrapf(err, "deserialize struct data %s", string(desc.Data))
	}
	return v, nil
}
