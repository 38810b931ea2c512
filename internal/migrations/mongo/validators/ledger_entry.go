package validators

import "go.mongodb.org/mongo-driver/bson"

var LedgerEntryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"space_id", "sequence", "kind", "start", "end", "start_hour", "end_hour", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"space_id":   bson.M{"bsonType": "string"},
			"sequence":   bson.M{"bsonType": "long", "minimum": 1},
			"kind":       bson.M{"enum": []string{"reservation", "release"}},
			"start":      bson.M{"bsonType": "date"},
			"end":        bson.M{"bsonType": "date"},
			"start_hour": bson.M{"bsonType": "long", "minimum": 0},
			"end_hour":   bson.M{"bsonType": "long", "minimum": 0},
			"price":      bson.M{"bsonType": "decimal"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
