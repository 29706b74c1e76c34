package domain

import "strings"

const validTagChars = "abcdefghijklmnopqrstuvwxyz_"

// Filter selects feeds by tags. Raw form is a comma separated list where "tag" requires the tag,
// "!tag" excludes it and "=" makes the match exact: the feed must carry no tags beyond the required ones.
type Filter struct {
	raw      string
	required []string
	excluded []string
	exact    bool
}

// ParseFilter builds a filter from its raw form, invalid tags are ignored
func ParseFilter(raw string) Filter {
	f := Filter{raw: raw}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "=" {
			f.exact = true
			continue
		}
		negate := strings.HasPrefix(part, "!")
		tag, ok := ValidTag(strings.TrimPrefix(part, "!"))
		if !ok {
			continue
		}
		if negate {
			f.excluded = append(f.excluded, tag)
			continue
		}
		f.required = append(f.required, tag)
	}
	return f
}

// ValidTag trims the tag and checks it is made of lowercase letters and underscores
func ValidTag(raw string) (string, bool) {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return "", false
	}
	for _, c := range tag {
		if !strings.ContainsRune(validTagChars, c) {
			return "", false
		}
	}
	return tag, true
}

// Matches checks the feed against the filter, an empty filter matches everything
func (f Filter) Matches(feed *Feed) bool {
	for _, tag := range f.excluded {
		if feed.HasTag(tag) {
			return false
		}
	}
	matched := 0
	for _, tag := range f.required {
		if !feed.HasTag(tag) {
			return false
		}
		matched++
	}
	return !f.exact || matched == len(feed.Tags)
}

// Raw returns the filter as it was given
func (f Filter) Raw() string {
	return f.raw
}
