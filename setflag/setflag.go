// Package setflag is a flag.Value holding a set of strings drawn from a
// fixed list of options.
package setflag

import (
	"fmt"
	"sort"
	"strings"
)

func New(options ...string) *SetFlag {
	sf := &SetFlag{
		values:  make(map[string]struct{}, len(options)),
		options: make(map[string]struct{}, len(options)),
	}
	for _, opt := range options {
		sf.options[opt] = struct{}{}
	}
	return sf
}

type SetFlag struct {
	options map[string]struct{}
	values  map[string]struct{}
}

// List returns the chosen values in order, or nil if none were set.
func (sf *SetFlag) List() []string {
	if len(sf.values) == 0 {
		return nil
	}
	values := make([]string, 0, len(sf.values))
	for k := range sf.values {
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}

// Options returns the accepted values in order.
func (sf *SetFlag) Options() []string {
	opts := make([]string, 0, len(sf.options))
	for k := range sf.options {
		opts = append(opts, k)
	}
	sort.Strings(opts)
	return opts
}

func (sf *SetFlag) String() string {
	return strings.Join(sf.List(), ",")
}

// Set adds value, or each of a comma-separated list of values, to the set.
func (sf *SetFlag) Set(value string) error {
	values := strings.Split(value, ",")
	for _, value := range values {
		value = strings.TrimSpace(value)
		if _, exists := sf.options[value]; !exists {
			return fmt.Errorf("unsupported value '%s' (options: %s)", value, strings.Join(sf.Options(), ", "))
		}
		sf.values[value] = struct{}{}
	}
	return nil
}
