package payload

import (
	"strings"
	"testing"

	"freightcarbon/internal/schema"
)

func TestNewBuilder(t *testing.T) {
	if _, err := NewBuilder(""); err == nil {
		t.Error("expected an error for an empty api key")
	}
	if _, err := NewBuilder("key"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuild_Air(t *testing.T) {
	b, _ := NewBuilder("secret")
	in := schema.NormalizedInput{
		Mode:               schema.ModeAir,
		WeightKg:           250,
		OriginAirport:      "LHR",
		DestinationAirport: "JFK",
	}

	out, err := b.Build(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<origin><airport>LHR</airport></origin>",
		"<destination><airport>JFK</airport></destination>",
		"<service>standard</service>",
		"<weight>250</weight>",
		"<apiKey>secret</apiKey>",
		"<volume>m3</volume>",
		"<weight>kg</weight>",
		"<quote>false</quote>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected payload to contain %q, got %s", want, out)
		}
	}
}

func TestBuild_AirServiceKept(t *testing.T) {
	b, _ := NewBuilder("secret")
	in := schema.NormalizedInput{
		Mode:               schema.ModeAir,
		WeightKg:           1,
		OriginAirport:      "LHR",
		DestinationAirport: "JFK",
		AirService:         AirServiceExpress,
	}
	out, _ := b.Build(in)
	if !strings.Contains(out, "<service>express</service>") {
		t.Errorf("expected express service, got %s", out)
	}
}

func TestBuild_Sea(t *testing.T) {
	b, _ := NewBuilder("secret")
	in := schema.NormalizedInput{
		Mode:               schema.ModeSea,
		WeightKg:           1000,
		OriginSeaport:      "DEHAM",
		DestinationSeaport: "CNSHA",
		Quote:              true,
	}
	out, err := b.Build(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"<origin><seaport>DEHAM</seaport></origin>",
		"<destination><seaport>CNSHA</seaport></destination>",
		"<quote>true</quote>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected payload to contain %q, got %s", want, out)
		}
	}
}

func TestBuild_Truck(t *testing.T) {
	over := 1.4
	testCases := []struct {
		name     string
		in       schema.NormalizedInput
		expected []string
	}{
		{
			name: "defaults to largest vehicle and full load",
			in: schema.NormalizedInput{
				Mode:               schema.ModeTruck,
				WeightKg:           500,
				OriginAddress:      schema.Address{Postal: "20457", Country: "DE", City: "Hamburg"},
				DestinationAddress: schema.Address{Postal: "1012", Country: "NL"},
			},
			expected: []string{
				"<vehicleType>semi40</vehicleType>",
				"<loadFactor>1</loadFactor>",
				"<postalCode>20457</postalCode>",
				"<countryCode>DE</countryCode>",
				"<countryName>Germany</countryName>",
				"<city>Hamburg</city>",
			},
		},
		{
			name: "load factor clamped to [0,1]",
			in: schema.NormalizedInput{
				Mode:               schema.ModeTruck,
				WeightKg:           500,
				OriginAddress:      schema.Address{Postal: "20457", Country: "DE"},
				DestinationAddress: schema.Address{Postal: "1012", Country: "NL"},
				VehicleType:        VehicleRigid18T,
				LoadFactor:         &over,
			},
			expected: []string{
				"<vehicleType>rigid18</vehicleType>",
				"<loadFactor>1</loadFactor>",
			},
		},
		{
			name: "unknown country code falls back to the raw code",
			in: schema.NormalizedInput{
				Mode:               schema.ModeTruck,
				WeightKg:           500,
				OriginAddress:      schema.Address{Postal: "00000", Country: "ZZ"},
				DestinationAddress: schema.Address{Postal: "1012", Country: "NL"},
			},
			expected: []string{
				"<countryCode>ZZ</countryCode>",
				"<countryName>ZZ</countryName>",
			},
		},
	}

	b, _ := NewBuilder("secret")
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			out, err := b.Build(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tc.expected {
				if !strings.Contains(out, want) {
					t.Errorf("expected payload to contain %q, got %s", want, out)
				}
			}
		})
	}
}

func TestBuild_EscapesReservedCharacters(t *testing.T) {
	b, _ := NewBuilder("secret")
	in := schema.NormalizedInput{
		Mode:               schema.ModeTruck,
		WeightKg:           1,
		OriginAddress:      schema.Address{Postal: "123", Country: "DE", City: `Bad <"City"> & 'Spa'`},
		DestinationAddress: schema.Address{Postal: "456", Country: "NL"},
	}
	out, err := b.Build(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<city>Bad &lt;&quot;City&quot;&gt; &amp; &apos;Spa&apos;</city>") {
		t.Errorf("expected escaped city, got %s", out)
	}
	if strings.Contains(out, `"City"`) {
		t.Errorf("raw reserved characters leaked into payload: %s", out)
	}
}

func TestBuild_UnknownMode(t *testing.T) {
	b, _ := NewBuilder("secret")
	if _, err := b.Build(schema.NormalizedInput{Mode: "rail"}); err == nil {
		t.Error("expected an error for an unsupported mode")
	}
}
