package validators

import "go.mongodb.org/mongo-driver/bson"

var ConnectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"requester_id",
			"recipient_id",
			"pair_key",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"requester_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"recipient_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"pair_key": bson.M{
				"bsonType":  "string",
				"minLength": 3,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"accepted",
					"declined",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"responded_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
