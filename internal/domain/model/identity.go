// Package model contains the domain entities shared across ports and adapters.
package model

// NormalizeID reduces a backend-supplied identity value to a plain string.
// The backend serializes ids inconsistently: sometimes a plain string,
// sometimes a Mongo extended-JSON wrapper ({"$oid": "..."}). Every ingestion
// point must pass ids through this function before storing or comparing them.
// Unknown shapes normalize to the empty string, which marks the entity as
// unusable for mutation operations.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case map[string]any:
		if s, ok := id["$oid"].(string); ok {
			return s
		}
	}
	return ""
}
