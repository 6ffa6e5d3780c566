package locale

import (
	"github.com/nyaruka/phonenumbers"
)

const DefaultTimezone = "UTC"

// countryTimezones maps ISO 3166-1 alpha-2 region codes to the IANA zone
// used when a business registers without an explicit timezone. Countries
// spanning several zones get their most populous one; anything unknown
// falls back to UTC.
var countryTimezones = map[string]string{
	"IL": "Asia/Jerusalem",
	"US": "America/New_York",
	"GB": "Europe/London",
	"DE": "Europe/Berlin",
	"FR": "Europe/Paris",
	"ES": "Europe/Madrid",
	"IT": "Europe/Rome",
	"NL": "Europe/Amsterdam",
	"AU": "Australia/Sydney",
	"BR": "America/Sao_Paulo",
	"IN": "Asia/Kolkata",
	"JP": "Asia/Tokyo",
}

// InferTimezoneFromPhone derives a default IANA timezone from an E.164
// phone number's country code.
func InferTimezoneFromPhone(phone string) string {
	if phone == "" {
		return DefaultTimezone
	}

	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return DefaultTimezone
	}

	region := phonenumbers.GetRegionCodeForNumber(parsed)
	if tz, ok := countryTimezones[region]; ok {
		return tz
	}
	return DefaultTimezone
}
