package gql

import "github.com/teebay/teebay-api/products"

// Absent arguments are missing from the map, so every getter returns nil for
// them. Non-null arguments are always present and may be dereferenced.

func intArg(args map[string]interface{}, name string) *int {
	if v, ok := args[name].(int); ok {
		return &v
	}
	return nil
}

func floatArg(args map[string]interface{}, name string) *float64 {
	switch v := args[name].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func stringArg(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

func intsArg(args map[string]interface{}, name string) *[]int {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(int); ok {
			out = append(out, n)
		}
	}
	return &out
}

func rentTypeArg(args map[string]interface{}) *products.RentType {
	s := stringArg(args, "rentType")
	if s == nil {
		return nil
	}
	rt := products.RentType(*s)
	return &rt
}
