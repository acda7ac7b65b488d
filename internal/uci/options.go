package uci

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

// OnChange is the side effect an option runs when its value is set.
type OnChange func(value string)

// Option is one entry of the protocol options table.
type Option struct {
	Name    string
	Type    string // "spin", "check", "string" or "button"
	Default string
	Min     int
	Max     int

	value    string
	onChange OnChange
	order    int
}

// Options is the process-wide option table. Lookups are
// case-insensitive; the listing keeps registration order. The mutex
// covers values: the search worker reads options while the command
// thread may be handling a setoption.
type Options struct {
	mu     sync.RWMutex
	byName map[string]*Option
	next   int
}

// NewOptions returns an empty table.
func NewOptions() *Options {
	return &Options{byName: make(map[string]*Option)}
}

func (o *Options) add(opt Option) {
	o.mu.Lock()
	defer o.mu.Unlock()
	opt.value = opt.Default
	opt.order = o.next
	o.next++
	o.byName[strings.ToLower(opt.Name)] = &opt
}

// AddSpin registers an integer option.
func (o *Options) AddSpin(name string, def, min, max int, fn OnChange) {
	o.add(Option{Name: name, Type: "spin", Default: strconv.Itoa(def), Min: min, Max: max, onChange: fn})
}

// AddCheck registers a boolean option.
func (o *Options) AddCheck(name string, def bool, fn OnChange) {
	o.add(Option{Name: name, Type: "check", Default: strconv.FormatBool(def), onChange: fn})
}

// AddString registers a free-form option.
func (o *Options) AddString(name, def string, fn OnChange) {
	o.add(Option{Name: name, Type: "string", Default: def, onChange: fn})
}

// AddButton registers a stateless trigger option.
func (o *Options) AddButton(name string, fn OnChange) {
	o.add(Option{Name: name, Type: "button", onChange: fn})
}

// Has reports whether the table knows the option.
func (o *Options) Has(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.byName[strings.ToLower(name)]
	return ok
}

// Set stores the value and runs the option's side effect. It returns
// false when the option does not exist; the table is then unchanged.
// The side effect runs outside the table lock.
func (o *Options) Set(name, value string) bool {
	o.mu.Lock()
	opt, ok := o.byName[strings.ToLower(name)]
	if !ok {
		o.mu.Unlock()
		return false
	}
	if opt.Type == "spin" {
		n, err := strconv.Atoi(value)
		if err != nil {
			o.mu.Unlock()
			return true // bad numeric input is treated as absent
		}
		if n < opt.Min {
			n = opt.Min
		}
		if n > opt.Max {
			n = opt.Max
		}
		value = strconv.Itoa(n)
	}
	if opt.Type != "button" {
		opt.value = value
	}
	fn := opt.onChange
	o.mu.Unlock()
	if fn != nil {
		fn(value)
	}
	return true
}

// Get returns the current value of an option, or "" if unknown.
func (o *Options) Get(name string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if opt, ok := o.byName[strings.ToLower(name)]; ok {
		return opt.value
	}
	return ""
}

// GetInt returns a spin option's value as an int.
func (o *Options) GetInt(name string) int {
	n, _ := strconv.Atoi(o.Get(name))
	return n
}

// GetBool returns a check option's value.
func (o *Options) GetBool(name string) bool {
	return strings.EqualFold(o.Get(name), "true")
}

// Type returns the registered type of an option, or "".
func (o *Options) Type(name string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if opt, ok := o.byName[strings.ToLower(name)]; ok {
		return opt.Type
	}
	return ""
}

// String renders the "uci" listing, one option per line in
// registration order.
func (o *Options) String() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	opts := make([]*Option, 0, len(o.byName))
	for _, opt := range o.byName {
		opts = append(opts, opt)
	}
	slices.SortFunc(opts, func(a, b *Option) bool { return a.order < b.order })

	var sb strings.Builder
	for _, opt := range opts {
		fmt.Fprintf(&sb, "option name %s type %s", opt.Name, opt.Type)
		switch opt.Type {
		case "spin":
			fmt.Fprintf(&sb, " default %s min %d max %d", opt.Default, opt.Min, opt.Max)
		case "check":
			fmt.Fprintf(&sb, " default %s", opt.Default)
		case "string":
			def := opt.Default
			if def == "" {
				def = "<empty>"
			}
			fmt.Fprintf(&sb, " default %s", def)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
