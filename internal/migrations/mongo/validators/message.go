package validators

import "go.mongodb.org/mongo-driver/bson"

var MessageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"sender_id",
			"receiver_id",
			"content",
			"read",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"sender_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"receiver_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"content": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 4000,
			},

			"read": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

// Conversations are keyed by the sorted user pair, one summary per thread.
var ConversationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"participants",
			"last_message_id",
			"last_content",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"participants": bson.M{
				"bsonType": "array",
				"minItems": 2,
				"maxItems": 2,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"last_message_id": bson.M{
				"bsonType": "string",
			},

			"last_content": bson.M{
				"bsonType": "string",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
