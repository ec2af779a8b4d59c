package serialization

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

type SampleSpec struct {
	Kind  string `json:"kind"`
	Limit int    `json:"limit"`
}

func TestSerializeStruct(t *testing.T) {
	Convey("Calling SerializeStruct", t, func() {
		Convey("On a struct pointer", func() {
			expected := &SampleSpec{Kind: "scan", Limit: 7}
			data, err := SerializeStruct(expected)
			So(err, ShouldBeNil)

			Convey("It should be same after deserialization", func() {
				v, err := DeserializeStruct(data)
				So(err, ShouldBeNil)
				So(v, ShouldResemble, expected)
			})
		})

		Convey("On a plain struct", func() {
			data, err := SerializeStruct(SampleSpec{Kind: "filter"})
			So(err, ShouldBeNil)

			v, err := DeserializeStruct(data)
			So(err, ShouldBeNil)
			So(v.(*SampleSpec).Kind, ShouldEqual, "filter")
		})
	})
}

func TestDeserializeUnresolvedType(t *testing.T) {
	_, err := DeserializeStruct([]byte(`{"pkgPath":"example.com/no/such/pkg","name":"Ghost","data":{}}`))
	require.Error(t, err)
	require.Equal(t, ErrUnresolved, errors.Cause(err))
}
