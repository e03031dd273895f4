package cfg

import (
	"flag"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ooyeku/httpkit/internal/xerrors"
)

// FillFromFile sets any flag not already set (cli or env) from a YAML file.
// Keys match flag names; underscores are accepted in place of dashes, so
// "log_level: debug" and "log-level: debug" are equivalent. Unknown keys are
// reported through logf and otherwise ignored, so a shared config file can
// carry settings for more than one binary.
func FillFromFile(fs *flag.FlagSet, path string, logf func(string, ...any)) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return xerrors.Wrapf(err, "could not read config file %s", path)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return xerrors.Wrapf(err, "could not parse config file %s", path)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	known := make(map[string]string)
	fs.VisitAll(func(f *flag.Flag) { known[f.Name] = f.Name })

	for key, val := range doc {
		name := strings.ReplaceAll(key, "_", "-")
		if _, ok := known[name]; !ok {
			if logf != nil {
				logf("config file %s: unknown key %q ignored", path, key)
			}
			continue
		}
		if set[name] {
			// cli or env already decided this one
			continue
		}
		if err := fs.Set(name, stringify(val)); err != nil {
			return xerrors.Wrapf(err, "config file %s: invalid value for %q", path, key)
		}
	}
	return nil
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
