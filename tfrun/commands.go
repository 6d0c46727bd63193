package tfrun

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Options configure a plan, apply or destroy invocation
type Options struct {
	// Vars become -var flags
	Vars map[string]interface{}
	// AutoApprove skips the interactive approval of apply and destroy
	AutoApprove bool
}

// VarFlags renders a variable map into -var arguments. Keys are emitted in
// sorted order so invocations are reproducible, non-string values are
// passed JSON-encoded.
func VarFlags(vars map[string]interface{}) ([]string, error) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flags := []string{}
	for _, k := range keys {
		var value string
		if s, ok := vars[k].(string); ok {
			value = s
		} else {
			data, err := json.Marshal(vars[k])
			if err != nil {
				return nil, errors.Wrapf(err, "could not encode variable %s", k)
			}
			value = string(data)
		}
		flags = append(flags, "-var", k+"="+value)
	}
	return flags, nil
}

// LoadVarsFile reads a JSON variable map from disk
func LoadVarsFile(fs afero.Fs, path string) (map[string]interface{}, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read variable file "+path)
	}

	vars := map[string]interface{}{}
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, errors.Wrap(err, "could not parse variable file "+path)
	}
	return vars, nil
}

// Plan runs terraform plan. The second return reports whether the plan
// contains changes, only a broken plan is an error.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Command, bool, error) {
	flags, err := VarFlags(opts.Vars)
	if err != nil {
		return nil, false, err
	}
	args := append([]string{"plan", "-input=false", "-detailed-exitcode"}, flags...)

	res, err := r.Exec(ctx, args...)
	if err != nil {
		return nil, false, err
	}

	// -detailed-exitcode: 0 empty plan, 2 changes present, 1 failure
	switch res.ExitStatus {
	case 0:
		return res, false, nil
	case 2:
		return res, true, nil
	default:
		return res, false, commandError("plan", res)
	}
}

func (r *Runner) Apply(ctx context.Context, opts Options) (*Command, error) {
	return r.run(ctx, "apply", opts)
}

func (r *Runner) Destroy(ctx context.Context, opts Options) (*Command, error) {
	return r.run(ctx, "destroy", opts)
}

func (r *Runner) run(ctx context.Context, verb string, opts Options) (*Command, error) {
	flags, err := VarFlags(opts.Vars)
	if err != nil {
		return nil, err
	}

	args := []string{verb, "-input=false"}
	if opts.AutoApprove {
		args = append(args, "-auto-approve")
	}
	args = append(args, flags...)

	res, err := r.Exec(ctx, args...)
	if err != nil {
		return nil, err
	}
	if res.ExitStatus != 0 {
		return res, commandError(verb, res)
	}
	return res, nil
}

func commandError(verb string, res *Command) error {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	return errors.Newf("terraform %s failed with exit status %d: %s", verb, res.ExitStatus, msg)
}
