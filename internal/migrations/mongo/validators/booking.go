package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"listing_id",
			"guest",
			"host",
			"check_in",
			"check_out",
			"rooms_booked",
			"price",
			"status",
			"version",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"listing_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"guest": userRefSchema,
			"host":  userRefSchema,

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"rooms_booked": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"price": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"booked",
					"cancelled",
				},
			},

			"payment_id": bson.M{
				"bsonType": "string",
			},

			"cancel_token": bson.M{
				"bsonType":  "string",
				"minLength": 32,
				"maxLength": 32,
			},

			"cancel_token_expires": bson.M{
				"bsonType": "date",
			},

			"version": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

// Booking locks carry a TTL-reaped expiry; the _id is the composite stay key
// built by the bookings service, so no further shape is enforced here.
var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"holder_id": bson.M{
				"bsonType": "string",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
