package tfrun

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	vrs "github.com/hashicorp/go-version"
)

// VersionInfo is the answer of terraform version -json
type VersionInfo struct {
	Version  string `json:"terraform_version"`
	Platform string `json:"platform"`
	Outdated bool   `json:"terraform_outdated"`
}

func (r *Runner) Version(ctx context.Context) (*VersionInfo, error) {
	res, err := r.Exec(ctx, "version", "-json")
	if err != nil {
		return nil, err
	}
	if res.ExitStatus != 0 {
		return nil, commandError("version", res)
	}

	var info VersionInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return nil, errors.Wrap(err, "could not parse terraform version output")
	}
	return &info, nil
}

// RequireVersion fails when the installed terraform is older than min
func (r *Runner) RequireVersion(ctx context.Context, min string) (*VersionInfo, error) {
	info, err := r.Version(ctx)
	if err != nil {
		return nil, err
	}

	current, err := vrs.NewVersion(info.Version)
	if err != nil {
		return info, errors.Wrapf(err, "unable to parse terraform version %s", info.Version)
	}
	required, err := vrs.NewVersion(min)
	if err != nil {
		return info, errors.Wrapf(err, "unable to parse required version %s", min)
	}

	if current.LessThan(required) {
		return info, errors.Newf("terraform %s is older than the required %s", info.Version, min)
	}
	return info, nil
}
