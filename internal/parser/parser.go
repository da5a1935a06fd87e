// Package parser defensively interprets the emissions service response. The
// service has been observed to vary its envelope nesting and to deliver the
// shipment node either as a bare object or as a single-element list, so the
// shipment node is located through an explicit priority-ordered path list
// rather than ad hoc probing.
package parser

import (
	"fmt"

	mxj "github.com/clbanning/mxj/v2"

	"freightcarbon/internal/schema"
)

// known envelope shapes, most specific first
var shipmentPaths = [][]string{
	{"emissionsResponse", "result", "shipment"},
	{"emissionsResponse", "shipment"},
	{"result", "shipment"},
	{"shipment"},
}

// Parse decodes the raw XML body into a generic tree and extracts the
// emissions result. An unrecognized envelope is not an error: the result
// then carries only the raw tree with zeroed emissions, so callers must not
// conflate zero emissions with "could not compute".
func Parse(raw string) (schema.Result, error) {
	tree, err := mxj.NewMapXml([]byte(raw))
	if err != nil {
		return schema.Result{}, fmt.Errorf("err during parsing of an emissions response: %s", err)
	}
	root := map[string]any(tree)

	result := schema.Result{Raw: root}
	node, ok := findShipment(root)
	if !ok {
		return result, nil
	}

	if v, ok := Number(node["distanceKm"]); ok {
		result.Km = &v
	}
	if v, ok := Number(node["tkm"]); ok {
		result.Tkm = &v
	}

	co2 := childMap(node, "co2e")
	result.EmissionsKg = schema.Emissions{
		Tot:           numberOrZero(co2["tot"]),
		Ops:           numberOrZero(co2["ops"]),
		Ene:           numberOrZero(co2["ene"]),
		TotEiGrPerTkm: numberOrZero(co2["totEiGrPerTkm"]),
	}
	return result, nil
}

func findShipment(root map[string]any) (map[string]any, bool) {
	for _, path := range shipmentPaths {
		var cur any = root
		found := true
		for _, key := range path {
			m, ok := asNode(cur)
			if !ok {
				found = false
				break
			}
			cur, ok = m[key]
			if !ok {
				found = false
				break
			}
		}
		if !found {
			continue
		}
		if node, ok := asNode(cur); ok {
			return node, true
		}
	}
	return nil, false
}

// asNode accepts a bare map or a single-element list wrapping one.
func asNode(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		if len(t) == 1 {
			return asNode(t[0])
		}
	}
	return nil, false
}

func childMap(node map[string]any, key string) map[string]any {
	child, ok := asNode(node[key])
	if !ok {
		return nil
	}
	return child
}
