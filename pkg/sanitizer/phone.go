package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	supportedRegions = []string{
		"IL",
		"US",
	}
)

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		parsedNumber, err := phonenumbers.Parse(phone, "")
		if err != nil || !phonenumbers.IsValidNumber(parsedNumber) {
			return ""
		}
		return phonenumbers.Format(parsedNumber, phonenumbers.E164)
	}

	// A local number can parse under the wrong region and come out as a
	// syntactically well-formed but invalid E.164 string, so a successful
	// parse alone is not enough.
	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumberForRegion(parsedNumber, region) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
