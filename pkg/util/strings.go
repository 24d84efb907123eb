package util

// DeduplicateStrings keeps the first occurrence of every non-blank value, preserving order
func DeduplicateStrings(values []string) []string {
	present := make(map[string]bool)
	list := []string{}

	for _, item := range values {
		if !present[item] && item != "" {
			present[item] = true
			list = append(list, item)
		}
	}

	return list
}
