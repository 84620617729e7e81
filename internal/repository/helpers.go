package repository

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

var (
	recordIdentPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	// Database index `user_email` already contains 'a@b.co', with record `user:x`
	duplicateIndexPattern = regexp.MustCompile("index `([^`]+)` already contains (.+?)(?:, with record|$)")
)

// recordID normalizes raw into a "table:ident" record id. A bare ident is
// prefixed with table. Anything else that is not a well-formed id for table
// returns a *database.CastError naming path.
func recordID(table, path, raw string) (string, error) {
	castErr := &database.CastError{Path: path, Value: raw, Kind: "record<" + table + ">"}

	ident := raw
	if tb, rest, ok := strings.Cut(raw, ":"); ok {
		if tb != table {
			return "", castErr
		}
		ident = rest
	}
	if !recordIdentPattern.MatchString(ident) {
		return "", castErr
	}
	return table + ":" + ident, nil
}

// duplicateError converts a unique index violation into a
// *database.DuplicateError. Other errors are returned unchanged.
func duplicateError(table string, err error) error {
	if err == nil {
		return nil
	}

	if m := duplicateIndexPattern.FindStringSubmatch(err.Error()); m != nil {
		field := strings.TrimPrefix(m[1], table+"_")
		value := strings.Trim(strings.TrimSpace(m[2]), `'"`)
		return &database.DuplicateError{Field: field, Value: value, Err: err}
	}

	if isUniqueConstraintError(err) {
		return &database.DuplicateError{Field: "value", Err: err}
	}
	return err
}

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "already contains") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// extractQueryResults extracts the record list of the first statement.
func extractQueryResults(results []interface{}) []interface{} {
	if len(results) == 0 {
		return nil
	}
	if first, ok := results[0].(map[string]interface{}); ok {
		if records, ok := first["result"].([]interface{}); ok {
			return records
		}
		if _, hasStatus := first["status"]; hasStatus {
			return nil
		}
	}
	// Direct array format
	return results
}

// asRecord unwraps a single record returned by QueryOne.
func asRecord(result interface{}) (map[string]interface{}, error) {
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result format %T", database.ErrQuery, result)
	}
	return data, nil
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	// Already a string
	if str, ok := id.(string); ok {
		return str
	}

	// Handle models.RecordID from SurrealDB Go client
	if rid, ok := id.(models.RecordID); ok {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}
	if rid, ok := id.(*models.RecordID); ok && rid != nil {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}

	// Handle map format: {"tb": "user", "id": {"String": "demo"}} or similar
	if m, ok := id.(map[string]interface{}); ok {
		tb := ""
		if t, ok := m["tb"].(string); ok {
			tb = t
		} else if t, ok := m["Table"].(string); ok {
			tb = t
		}

		idPart := ""
		if idVal, ok := m["id"]; ok {
			idPart = extractIDValue(idVal)
		} else if idVal, ok := m["ID"]; ok {
			idPart = extractIDValue(idVal)
		}

		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		if idPart != "" {
			return idPart
		}
	}

	if id == nil {
		return ""
	}
	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringPtr extracts an optional string value from a map
func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	return toInt(m[key])
}

// toInt converts the numeric types the driver may decode into an int
func toInt(n interface{}) int {
	switch v := n.(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

// getFloat extracts a float value from a map
func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

// getBool extracts a bool value from a map, falling back to def when absent
func getBool(m map[string]interface{}, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	case time.Time:
		return &v
	case models.CustomDateTime:
		t := v.Time
		return &t
	case *models.CustomDateTime:
		if v != nil {
			t := v.Time
			return &t
		}
	}
	return nil
}

// getTimeValue is getTime for required timestamps
func getTimeValue(m map[string]interface{}, key string) time.Time {
	if t := getTime(m, key); t != nil {
		return *t
	}
	return time.Time{}
}

// formatTime renders t for a <datetime> cast. A nil time becomes NONE.
func formatTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ptrToNone converts a string pointer to either the string value or nil (NONE).
func ptrToNone(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
