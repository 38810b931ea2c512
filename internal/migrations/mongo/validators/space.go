package validators

import "go.mongodb.org/mongo-driver/bson"

var SpaceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "hourly_rate", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":              bson.M{"bsonType": "objectId"},
			"name":             bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"number_of_people": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"hourly_rate":      bson.M{"bsonType": "decimal"},
			"manager_phone":    bson.M{"bsonType": "string"},
			"tags": bson.M{
				"bsonType": []string{"array", "null"},
				"maxItems": 20,
				"items":    bson.M{"bsonType": "string"},
			},
			"dimensions": bson.M{"bsonType": "object"},
			"seating":    bson.M{"bsonType": "object"},
			"features":   bson.M{"bsonType": "object"},
			"review":     bson.M{"bsonType": "object"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
