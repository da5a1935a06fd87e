package payload

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// countryName returns the English display name for an ISO 3166-1 alpha-2
// code, falling back to the raw code when the lookup fails. Never errors:
// the payload must still build for codes the locale tables do not know.
func countryName(code string) string {
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return code
}
