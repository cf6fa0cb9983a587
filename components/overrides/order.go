package overrides

import "sort"

// reconcileOrder keeps the prior relative order of keys still present in set and
// appends keys that newly appeared. New keys follow the universe order; keys the
// universe does not know come last, sorted.
func reconcileOrder(prior []string, set OverrideSet, universe []string) []string {
	result := make([]string, 0, len(set))
	seen := make(map[string]struct{}, len(set))
	for _, key := range prior {
		if _, ok := set[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		result = append(result, key)
		seen[key] = struct{}{}
	}
	for _, key := range universe {
		if _, ok := set[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		result = append(result, key)
		seen[key] = struct{}{}
	}
	var unknown []string
	for key := range set {
		if _, ok := seen[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return append(result, unknown...)
}

func withoutKey(keys []string, key string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
