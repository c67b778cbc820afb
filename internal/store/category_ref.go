package store

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// categoryRef is the product's category reference as a hex id. It decodes
// both ObjectID and string values, so documents written by other tools still
// load instead of failing the whole listing.
type categoryRef string

func (r *categoryRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*r = ""
		return nil
	case bsontype.ObjectID:
		var oid primitive.ObjectID
		if err := bson.UnmarshalValue(t, data, &oid); err != nil {
			return err
		}
		*r = categoryRef(oid.Hex())
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*r = categoryRef(strings.TrimSpace(value))
		return nil
	default:
		return fmt.Errorf("cannot decode %s into category reference", t)
	}
}

// MarshalBSONValue writes an ObjectID whenever the reference is a valid hex
// id, keeping new writes consistent with the _id of categories.
func (r categoryRef) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if oid, err := primitive.ObjectIDFromHex(string(r)); err == nil {
		return bson.MarshalValue(oid)
	}
	return bson.MarshalValue(string(r))
}
