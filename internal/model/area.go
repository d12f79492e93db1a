package model

import (
	"fmt"
	"strings"
)

// PriceArea is a Norwegian electricity bidding zone. The set is closed:
// hvakosterstrommen.no publishes prices for exactly these five zones.
type PriceArea int

const (
	NO1 PriceArea = iota + 1 // Oslo / Øst-Norge
	NO2                      // Kristiansand / Sør-Norge
	NO3                      // Trondheim / Midt-Norge
	NO4                      // Tromsø / Nord-Norge
	NO5                      // Bergen / Vest-Norge
)

var areaCodes = map[PriceArea]string{
	NO1: "NO1",
	NO2: "NO2",
	NO3: "NO3",
	NO4: "NO4",
	NO5: "NO5",
}

var areaLabels = map[PriceArea]string{
	NO1: "Oslo / Øst-Norge",
	NO2: "Kristiansand / Sør-Norge",
	NO3: "Trondheim / Midt-Norge",
	NO4: "Tromsø / Nord-Norge",
	NO5: "Bergen / Vest-Norge",
}

// Code returns the zone identifier used in API paths and cache keys, e.g. "NO2".
func (a PriceArea) Code() string {
	return areaCodes[a]
}

// Label returns the human-readable region name for the zone.
func (a PriceArea) Label() string {
	return areaLabels[a]
}

func (a PriceArea) Valid() bool {
	_, ok := areaCodes[a]
	return ok
}

func (a PriceArea) String() string {
	if s, ok := areaCodes[a]; ok {
		return s
	}
	return fmt.Sprintf("PriceArea(%d)", int(a))
}

// Areas lists every bidding zone in a stable order.
func Areas() []PriceArea {
	return []PriceArea{NO1, NO2, NO3, NO4, NO5}
}

// ParseArea resolves a zone code like "NO2" (case-insensitive).
func ParseArea(s string) (PriceArea, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for _, a := range Areas() {
		if a.Code() == code {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown price area %q (expected NO1..NO5)", s)
}
