// Package history models the filter options of a history-browsing session:
// a declarative catalogue of recognized flags, git-style argument parsing,
// deep copy and equality for dirty tracking, and a dry-run check that warns
// before opening an empty history.
package history

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ofirgall/diffview/internal/vcs"
)

type flagKind uint8

const (
	flagSwitch flagKind = iota
	flagValue
	flagMulti
)

type flagSpec struct {
	key  string
	kind flagKind
	// enum restricts a value flag to a fixed vocabulary; nil means free form.
	enum []string
	// singleFileOnly flags are rendered only when exactly one path is
	// targeted.
	singleFileOnly bool
}

// catalogue is the full set of recognized history options, in render order.
// It is declared once; the lookup map below is derived eagerly.
var catalogue = []flagSpec{
	{key: "follow", kind: flagSwitch, singleFileOnly: true},
	{key: "first-parent", kind: flagSwitch},
	{key: "show-pulls", kind: flagSwitch},
	{key: "reflog", kind: flagSwitch},
	{key: "all", kind: flagSwitch},
	{key: "merges", kind: flagSwitch},
	{key: "no-merges", kind: flagSwitch},
	{key: "reverse", kind: flagSwitch},
	{key: "rev-range", kind: flagValue},
	{key: "base", kind: flagValue},
	{key: "max-count", kind: flagValue},
	{key: "diff-merges", kind: flagValue, enum: []string{
		"off", "on", "first-parent", "separate", "combined", "dense-combined", "remerge",
	}},
	{key: "author", kind: flagValue},
	{key: "grep", kind: flagValue},
	{key: "L", kind: flagMulti},
	{key: "path-args", kind: flagMulti},
}

var specByKey = func() map[string]flagSpec {
	m := make(map[string]flagSpec, len(catalogue))
	for _, spec := range catalogue {
		m[spec.key] = spec
	}
	return m
}()

// profile holds one path-cardinality's view of the option values. Defaults
// are the zero values: switches off, value flags empty, multi flags nil.
type profile struct {
	switches map[string]bool
	values   map[string]string
	multi    map[string][]string
}

func newProfile() profile {
	return profile{
		switches: map[string]bool{},
		values:   map[string]string{},
		multi:    map[string][]string{},
	}
}

func (p profile) clone() profile {
	c := profile{
		switches: maps.Clone(p.switches),
		values:   maps.Clone(p.values),
		multi:    make(map[string][]string, len(p.multi)),
	}
	for k, v := range p.multi {
		c.multi[k] = slices.Clone(v)
	}
	return c
}

func (p profile) equal(o profile) bool {
	if !maps.Equal(p.switches, o.switches) || !maps.Equal(p.values, o.values) {
		return false
	}
	if len(p.multi) != len(o.multi) {
		return false
	}
	for k, v := range p.multi {
		if !slices.Equal(v, o.multi[k]) {
			return false
		}
	}
	return true
}

// Options is the log-option record. Every Set writes both the single-file
// and multi-file profiles so switching target-path cardinality never drops
// a previously chosen value; flags marked single-file only are simply left
// out when rendering for multiple paths.
type Options struct {
	singleFile profile
	multiFile  profile
}

func New() *Options {
	return &Options{singleFile: newProfile(), multiFile: newProfile()}
}

// SetSwitch sets a boolean flag. Unknown or non-switch keys are an error.
func (o *Options) SetSwitch(key string, on bool) error {
	if err := checkKind(key, flagSwitch); err != nil {
		return err
	}
	o.singleFile.switches[key] = on
	o.multiFile.switches[key] = on
	return nil
}

// SetValue sets a value flag, validating enumerated vocabularies.
func (o *Options) SetValue(key, value string) error {
	spec, err := lookupKind(key, flagValue)
	if err != nil {
		return err
	}
	if len(spec.enum) > 0 && value != "" && !slices.Contains(spec.enum, value) {
		return fmt.Errorf("--%s=%s: must be one of %s", key, value, strings.Join(spec.enum, "|"))
	}
	o.singleFile.values[key] = value
	o.multiFile.values[key] = value
	return nil
}

// AddMulti appends to a multi-value flag.
func (o *Options) AddMulti(key, value string) error {
	if err := checkKind(key, flagMulti); err != nil {
		return err
	}
	o.singleFile.multi[key] = append(o.singleFile.multi[key], value)
	o.multiFile.multi[key] = append(o.multiFile.multi[key], value)
	return nil
}

func (o *Options) Switch(key string) bool    { return o.singleFile.switches[key] }
func (o *Options) Value(key string) string   { return o.singleFile.values[key] }
func (o *Options) Multi(key string) []string { return o.singleFile.multi[key] }

// Paths returns the trailing path restrictions.
func (o *Options) Paths() []string { return o.Multi("path-args") }

// Clone returns a deep copy. Clone followed by Equal against the original
// is always true.
func (o *Options) Clone() *Options {
	return &Options{
		singleFile: o.singleFile.clone(),
		multiFile:  o.multiFile.clone(),
	}
}

// Equal reports deep equality of both profiles. It is the dirty check used
// by history sessions to detect edited filters.
func (o *Options) Equal(other *Options) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.singleFile.equal(other.singleFile) && o.multiFile.equal(other.multiFile)
}

// Filter renders the effective options into the backend query filter. The
// profile is chosen by path cardinality: single-file-only flags apply only
// when exactly one path is targeted.
func (o *Options) Filter() vcs.HistoryFilter {
	paths := o.Paths()
	singleFile := len(paths) == 1
	p := o.multiFile
	if singleFile {
		p = o.singleFile
	}
	f := vcs.HistoryFilter{
		RevRange:   p.values["rev-range"],
		Base:       p.values["base"],
		ShowPulls:  p.switches["show-pulls"],
		Reflog:     p.switches["reflog"],
		All:        p.switches["all"],
		Merges:     p.switches["merges"],
		NoMerges:   p.switches["no-merges"],
		Reverse:    p.switches["reverse"],
		DiffMerges: p.values["diff-merges"],
		Author:     p.values["author"],
		Grep:       p.values["grep"],
		LineRanges: slices.Clone(p.multi["L"]),
		Paths:      slices.Clone(paths),
	}
	f.FirstParent = p.switches["first-parent"]
	if singleFile {
		f.Follow = p.switches["follow"]
	}
	if raw := p.values["max-count"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.MaxCount = n
		}
	}
	return f
}

// Describe renders the effective (non-default) option set for user-facing
// messages, in catalogue order.
func (o *Options) Describe() string {
	var parts []string
	for _, spec := range catalogue {
		switch spec.kind {
		case flagSwitch:
			if o.singleFile.switches[spec.key] {
				parts = append(parts, spec.key)
			}
		case flagValue:
			if v := o.singleFile.values[spec.key]; v != "" {
				parts = append(parts, spec.key+"="+v)
			}
		case flagMulti:
			for _, v := range o.singleFile.multi[spec.key] {
				parts = append(parts, spec.key+"="+v)
			}
		}
	}
	if len(parts) == 0 {
		return "(no options)"
	}
	return strings.Join(parts, ", ")
}

func lookupKind(key string, kind flagKind) (flagSpec, error) {
	spec, ok := specByKey[key]
	if !ok {
		return flagSpec{}, fmt.Errorf("unknown history option %q", key)
	}
	if spec.kind != kind {
		return flagSpec{}, fmt.Errorf("history option %q used with the wrong shape", key)
	}
	return spec, nil
}

func checkKind(key string, kind flagKind) error {
	_, err := lookupKind(key, kind)
	return err
}
