package hub

import (
	"fmt"
	"strings"
)

// StateRecord is one row of GET /api/states.
type StateRecord struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// StateSummary is the projected output row of a state listing. Attributes
// are included only on request since they can be large.
type StateSummary struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// StateFilter narrows and truncates a state listing.
type StateFilter struct {
	Domain            string
	Search            string
	Limit             int
	IncludeAttributes bool
}

// FilterStates applies domain and search filters in input order, stopping
// once the limit is reached. A non-positive limit yields an empty slice.
func FilterStates(states []StateRecord, f StateFilter) []StateSummary {
	out := []StateSummary{}
	if f.Limit <= 0 {
		return out
	}
	domain := strings.ToLower(strings.TrimSpace(f.Domain))
	search := strings.ToLower(strings.TrimSpace(f.Search))

	for _, st := range states {
		eid := strings.ToLower(st.EntityID)
		if domain != "" && !strings.HasPrefix(eid, domain+".") {
			continue
		}
		if search != "" && !strings.Contains(eid, search) {
			continue
		}
		item := StateSummary{EntityID: st.EntityID, State: st.State}
		if f.IncludeAttributes {
			item.Attributes = st.Attributes
			if item.Attributes == nil {
				item.Attributes = map[string]any{}
			}
		}
		out = append(out, item)
		if len(out) >= f.Limit {
			break
		}
	}
	return out
}

// LogFilter narrows and truncates a system_log/list result.
type LogFilter struct {
	Search string
	Levels []string
	Limit  int
}

// FilterLogEntries keeps entries matching the level set and the substring
// search over name/message/source, preserving order up to the limit. A
// non-positive limit yields an empty slice.
func FilterLogEntries(entries []map[string]any, f LogFilter) []map[string]any {
	out := []map[string]any{}
	if f.Limit <= 0 {
		return out
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	levels := make(map[string]bool, len(f.Levels))
	for _, lvl := range f.Levels {
		lvl = strings.ToLower(strings.TrimSpace(lvl))
		if lvl != "" {
			levels[lvl] = true
		}
	}

	for _, entry := range entries {
		if len(levels) > 0 {
			lvl, _ := entry["level"].(string)
			if !levels[strings.ToLower(lvl)] {
				continue
			}
		}
		if search != "" && !logEntryMatches(entry, search) {
			continue
		}
		out = append(out, entry)
		if len(out) >= f.Limit {
			break
		}
	}
	return out
}

// logEntryMatches searches name, message, and source. Values can be strings
// or arrays depending on the hub version, so everything is flattened.
func logEntryMatches(entry map[string]any, search string) bool {
	var blob strings.Builder
	for _, key := range []string{"name", "message", "source"} {
		if v, ok := entry[key]; ok && v != nil {
			blob.WriteString(strings.ToLower(fmt.Sprint(v)))
			blob.WriteByte(' ')
		}
	}
	return strings.Contains(blob.String(), search)
}
