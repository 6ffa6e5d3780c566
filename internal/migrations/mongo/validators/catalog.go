package validators

import "go.mongodb.org/mongo-driver/bson"

var dayTimePattern = "^([01][0-9]|2[0-3]):[0-5][0-9]$"

var BusinessValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"phone",
			"specialties",
			"time_zone",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  "^\\+[1-9][0-9]{4,14}$",
			},

			"website": bson.M{
				"bsonType": "string",
			},

			"specialties": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 20,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"business_id",
			"name",
			"duration_min",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"business_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  480,
			},

			"price": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SpecialistValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"business_id",
			"name",
			"start_of_day",
			"end_of_day",
			"working_days",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"business_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"start_of_day": bson.M{
				"bsonType": "string",
				"pattern":  dayTimePattern,
			},

			"end_of_day": bson.M{
				"bsonType": "string",
				"pattern":  dayTimePattern,
			},

			"working_days": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 7,
				"items": bson.M{
					"bsonType": "string",
					"enum": []string{
						"Sunday",
						"Monday",
						"Tuesday",
						"Wednesday",
						"Thursday",
						"Friday",
						"Saturday",
					},
				},
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
