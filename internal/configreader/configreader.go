// Package configreader fills a tagged config struct from a TOML or YAML file,
// then command-line flags, then environment variables, each overriding the
// last.
package configreader

import (
	"encoding"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"fknsrs.biz/p/ytbrowse/internal/stringutil"
)

func Read(program string, arguments, environment []string, out interface{}) error {
	ps, err := paramsOf(out)
	if err != nil {
		return fmt.Errorf("configreader.Read: %w", err)
	}

	if configPath := findConfigPath(ps, arguments, environment); configPath != "" {
		if err := readFile(configPath, out); err != nil {
			return fmt.Errorf("configreader.Read: %w", err)
		}
	}

	if err := readArguments(program, ps, arguments); err != nil {
		return fmt.Errorf("configreader.Read: could not read command-line flags: %w", err)
	}

	if err := readEnvironment(ps, environment); err != nil {
		return fmt.Errorf("configreader.Read: could not read environment variables: %w", err)
	}

	return nil
}

// param is one settable field of the config struct.
type param struct {
	name  string
	help  string
	field string
	value reflect.Value
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

func paramsOf(out interface{}) ([]param, error) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("configreader.paramsOf: value must be a non-nil pointer to a struct; was instead %T", out)
	}

	rv = rv.Elem()
	rt := rv.Type()

	var ps []param
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := sf.Tag.Get("name")
		if name == "-" {
			continue
		}
		if name == "" {
			name = stringutil.PascalToSnake(sf.Name)
		}

		p := param{name: name, help: sf.Tag.Get("help"), field: sf.Name, value: rv.Field(i)}
		if !p.supported() {
			return nil, fmt.Errorf("configreader.paramsOf: parameter %s (%s) has unsupported type %s", p.field, p.name, sf.Type)
		}

		ps = append(ps, p)
	}

	return ps, nil
}

func (p param) textValue() (encoding.TextUnmarshaler, bool) {
	if reflect.PointerTo(p.value.Type()).Implements(textUnmarshalerType) {
		return p.value.Addr().Interface().(encoding.TextUnmarshaler), true
	}

	return nil, false
}

func (p param) supported() bool {
	if _, ok := p.textValue(); ok {
		return true
	}

	switch p.value.Kind() {
	case reflect.String, reflect.Bool, reflect.Int, reflect.Float64:
		return true
	default:
		return false
	}
}

func (p param) isBool() bool {
	_, ok := p.textValue()
	return !ok && p.value.Kind() == reflect.Bool
}

// set parses s into the field. Booleans accept anything LooksTrue accepts.
func (p param) set(s string) error {
	if u, ok := p.textValue(); ok {
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("could not unmarshal parameter %s (%s): %w", p.field, p.name, err)
		}

		return nil
	}

	switch p.value.Kind() {
	case reflect.String:
		p.value.SetString(s)
	case reflect.Bool:
		p.value.SetBool(stringutil.LooksTrue(s))
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("could not parse parameter %s (%s) as integer: %w", p.field, p.name, err)
		}
		p.value.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("could not parse parameter %s (%s) as number: %w", p.field, p.name, err)
		}
		p.value.SetFloat(f)
	}

	return nil
}

func (p param) String() string {
	if !p.value.IsValid() {
		return ""
	}

	if m, ok := p.value.Addr().Interface().(encoding.TextMarshaler); ok {
		d, err := m.MarshalText()
		if err != nil {
			return ""
		}
		return string(d)
	}

	return fmt.Sprint(p.value.Interface())
}

// flagValue adapts a param to flag.Value.
type flagValue struct{ param }

func (v flagValue) Set(s string) error { return v.set(s) }
func (v flagValue) IsBoolFlag() bool   { return v.isBool() }

func lookupArgument(arguments []string, name string) (string, bool) {
	for i, arg := range arguments {
		switch {
		case arg == "-"+name || arg == "--"+name:
			if i+1 < len(arguments) {
				return arguments[i+1], true
			}
		case strings.HasPrefix(arg, "-"+name+"="):
			return arg[len(name)+2:], true
		case strings.HasPrefix(arg, "--"+name+"="):
			return arg[len(name)+3:], true
		}
	}

	return "", false
}

// lookupEnvironment matches variable names case-insensitively.
func lookupEnvironment(environment []string, name string) (string, bool) {
	for _, e := range environment {
		k, v, ok := strings.Cut(e, "=")
		if ok && strings.EqualFold(k, name) {
			return v, true
		}
	}

	return "", false
}

func findConfigPath(ps []param, arguments, environment []string) string {
	if s, ok := lookupArgument(arguments, "config"); ok {
		return s
	}

	if s, ok := lookupEnvironment(environment, "config"); ok {
		return s
	}

	for _, p := range ps {
		if p.name == "config" {
			return p.String()
		}
	}

	return ""
}

type decoder interface {
	Decode(v interface{}) error
}

func readFile(filePath string, out interface{}) error {
	var newDecoder func(fd *os.File) decoder

	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		newDecoder = func(fd *os.File) decoder { return yaml.NewDecoder(fd) }
	case ".toml":
		newDecoder = func(fd *os.File) decoder { return toml.NewDecoder(fd) }
	default:
		return fmt.Errorf("configreader.readFile: could not determine file type for %q", filePath)
	}

	fd, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("configreader.readFile: could not open %q: %w", filePath, err)
	}
	defer fd.Close()

	if err := newDecoder(fd).Decode(out); err != nil {
		return fmt.Errorf("configreader.readFile: could not parse %q: %w", filePath, err)
	}

	return nil
}

func readArguments(program string, ps []param, arguments []string) error {
	flagSet := flag.NewFlagSet(program, flag.ContinueOnError)

	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n", program)
		flagSet.PrintDefaults()
		os.Exit(0)
	}

	for _, p := range ps {
		flagSet.Var(flagValue{p}, p.name, p.help)
	}

	return flagSet.Parse(arguments)
}

func readEnvironment(ps []param, environment []string) error {
	for _, p := range ps {
		if s, ok := lookupEnvironment(environment, p.name); ok {
			if err := p.set(s); err != nil {
				return fmt.Errorf("configreader.readEnvironment: %w", err)
			}
		}
	}

	return nil
}
