package validators

import "go.mongodb.org/mongo-driver/bson"

var userRefSchema = bson.M{
	"bsonType": "object",
	"required": []string{"id"},
	"properties": bson.M{
		"id": bson.M{
			"bsonType":  "string",
			"minLength": 1,
		},
		"username": bson.M{
			"bsonType":  "string",
			"maxLength": 100,
		},
		"email": bson.M{
			"bsonType": "string",
		},
	},
}

var ListingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"price",
			"total_rooms",
			"location",
			"country",
			"category",
			"owner",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 5000,
			},

			"price": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"total_rooms": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"location": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"country": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"category": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"original_category": bson.M{
				"bsonType": "string",
			},

			"geometry": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"type": bson.M{
						"enum": []string{"Point"},
					},
					"coordinates": bson.M{
						"bsonType": "array",
						"minItems": 2,
						"maxItems": 2,
						"items": bson.M{
							"bsonType": []string{"double", "int", "long"},
						},
					},
				},
			},

			"owner": userRefSchema,

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
