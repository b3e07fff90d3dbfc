package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// parseObjectID converts the string ids used at the tool boundary back into
// ObjectIDs, mapping malformed input to ErrInvalidProductID.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidProductID
	}
	return oid, nil
}

func objectIDHex(insertedID any) string {
	if oid, ok := insertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func findOneAndUpdateReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
