package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-fitstaff/internal/access"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// isDocument reports values that Mongo would read as operator expressions
func isDocument(v any) bool {
	switch v.(type) {
	case map[string]any, bson.M, bson.D:
		return true
	}
	return false
}

// prepareFilters turns request filters into a query over record fields
func prepareFilters(filters []Filter) (bson.M, error) {
	typed := bson.M{}

	for _, f := range filters {
		field := f.Field
		val := f.Value

		if isDocument(val) {
			return nil, fmt.Errorf("filter on %q: object values are not allowed", field)
		}

		if field == "id" || field == "_id" {
			if str, ok := val.(string); ok {
				oid, err := primitive.ObjectIDFromHex(str)
				if err != nil {
					return nil, fmt.Errorf("invalid id filter %q", str)
				}
				typed["_id"] = oid
			}
			continue
		}

		switch f.Operator {
		case "", "eq":
			typed[field] = val
		case "ne":
			typed[field] = bson.M{"$ne": val}
		case "gt":
			typed[field] = bson.M{"$gt": val}
		case "lt":
			typed[field] = bson.M{"$lt": val}
		case "gte":
			typed[field] = bson.M{"$gte": val}
		case "lte":
			typed[field] = bson.M{"$lte": val}
		case "in":
			typed[field] = bson.M{"$in": listValue(val)}
		case "nin":
			typed[field] = bson.M{"$nin": listValue(val)}
		case "contains":
			if str, ok := val.(string); ok {
				typed[field] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(str), Options: "i"}}
			}
		case "starts_with":
			if str, ok := val.(string); ok {
				typed[field] = bson.M{"$regex": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(str), Options: "i"}}
			}
		case "ends_with":
			if str, ok := val.(string); ok {
				typed[field] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(str) + "$", Options: "i"}}
			}
		case "between":
			rng, err := betweenValue(val)
			if err != nil {
				return nil, fmt.Errorf("invalid range values for field '%s'", field)
			}
			typed[field] = rng
		default:
			return nil, fmt.Errorf("unsupported operator %q", f.Operator)
		}
	}

	return typed, nil
}

func listValue(val interface{}) interface{} {
	if str, ok := val.(string); ok {
		parts := strings.Split(str, ",")
		out := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	}
	return val
}

func betweenValue(val interface{}) (bson.M, error) {
	str, ok := val.(string)
	if !ok {
		return nil, fmt.Errorf("between expects \"start,end\"")
	}
	parts := strings.Split(str, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("between expects \"start,end\"")
	}
	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	if start, err := parseDate(startStr); err == nil {
		end, err := parseDate(endStr)
		if err != nil {
			return nil, err
		}
		return bson.M{"$gte": start, "$lte": end}, nil
	}

	start, err1 := strconv.ParseFloat(startStr, 64)
	end, err2 := strconv.ParseFloat(endStr, 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("range bounds must be dates or numbers")
	}
	return bson.M{"$gte": start, "$lte": end}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// accessFilter narrows a query to what the access level can reach. The
// evaluator still has the final say on every returned record.
func accessFilter(e *access.Evaluator, s *access.Subject, level access.Level) bson.M {
	if s.IsAdmin() {
		return bson.M{}
	}
	switch level {
	case access.LevelAll:
		return bson.M{}
	case access.LevelDepartment:
		if e.Policy().AllowMissingDepartment {
			return bson.M{"department": bson.M{"$in": bson.A{s.Department, "", nil}}}
		}
		return bson.M{"department": s.Department}
	case access.LevelAssigned:
		return bson.M{"assigned_ids": s.ID}
	case access.LevelOwn:
		return bson.M{"owner_id": s.ID}
	}
	return nil
}
