package podman

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filters is the server-side filter set of a list request: filter key to
// accepted values. It is passed through to the service unmodified; the
// client never filters results itself.
type Filters map[string][]string

// encode renders the filter set in the form libpod expects: a single
// "filters" query parameter holding the JSON object, keys lowercased.
func (f Filters) encode() (string, error) {
	if len(f) == 0 {
		return "", nil
	}

	lowered := make(map[string][]string, len(f))
	for k, v := range f {
		lowered[strings.ToLower(k)] = v
	}

	buf, err := json.Marshal(lowered)
	if err != nil {
		return "", fmt.Errorf("encoding filters: %w", err)
	}

	return string(buf), nil
}

// ListOptions controls list requests.
type ListOptions struct {
	// All includes non-running containers (and equivalent for other kinds).
	All bool
	// Limit caps the number of results; 0 means no cap.
	Limit int
	// Filters are applied server-side.
	Filters Filters
}

// ToParams renders the options as query parameters.
func (o *ListOptions) ToParams() (url.Values, error) {
	params := url.Values{}
	if o == nil {
		return params, nil
	}

	if o.All {
		params.Set("all", "true")
	}

	if o.Limit > 0 {
		params.Set("limit", strconv.Itoa(o.Limit))
	}

	encoded, err := o.Filters.encode()
	if err != nil {
		return nil, err
	}

	if encoded != "" {
		params.Set("filters", encoded)
	}

	return params, nil
}

// RemoveOptions controls remove requests.
type RemoveOptions struct {
	// Force removes a running container or an in-use image/network/volume.
	Force bool
	// Volumes also removes anonymous volumes of a container.
	Volumes bool
	// Timeout overrides the kill grace period, in seconds.
	Timeout *uint
}

// ToParams renders the options as query parameters.
func (o *RemoveOptions) ToParams() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}

	if o.Force {
		params.Set("force", "true")
	}

	if o.Volumes {
		params.Set("v", "true")
	}

	if o.Timeout != nil {
		params.Set("timeout", strconv.FormatUint(uint64(*o.Timeout), 10))
	}

	return params
}

// StopOptions controls stop requests.
type StopOptions struct {
	// Timeout is the grace period before the container is killed, in seconds.
	Timeout *uint
}

// ToParams renders the options as query parameters.
func (o *StopOptions) ToParams() url.Values {
	params := url.Values{}
	if o != nil && o.Timeout != nil {
		params.Set("timeout", strconv.FormatUint(uint64(*o.Timeout), 10))
	}

	return params
}

// WaitOptions controls wait requests.
type WaitOptions struct {
	// Conditions are container states to wait for; default is "stopped".
	Conditions []string
}

// ToParams renders the options as query parameters.
func (o *WaitOptions) ToParams() url.Values {
	params := url.Values{}
	if o != nil {
		for _, c := range o.Conditions {
			params.Add("condition", c)
		}
	}

	return params
}

// LogOptions controls container log requests.
type LogOptions struct {
	Follow     bool
	Stdout     bool
	Stderr     bool
	Timestamps bool
	// Tail limits output to the last N lines; empty means all.
	Tail string
	// Since and Until bound the log window (RFC3339 or Unix timestamps).
	Since string
	Until string
}

// ToParams renders the options as query parameters. The service requires at
// least one of stdout/stderr; both default on when neither is set.
func (o *LogOptions) ToParams() url.Values {
	params := url.Values{}
	if o == nil {
		o = &LogOptions{}
	}

	stdout, stderr := o.Stdout, o.Stderr
	if !stdout && !stderr {
		stdout, stderr = true, true
	}

	params.Set("stdout", strconv.FormatBool(stdout))
	params.Set("stderr", strconv.FormatBool(stderr))

	if o.Follow {
		params.Set("follow", "true")
	}

	if o.Timestamps {
		params.Set("timestamps", "true")
	}

	if o.Tail != "" {
		params.Set("tail", o.Tail)
	}

	if o.Since != "" {
		params.Set("since", o.Since)
	}

	if o.Until != "" {
		params.Set("until", o.Until)
	}

	return params
}

// EventsOptions controls the system event stream.
type EventsOptions struct {
	// Since and Until bound the event window.
	Since string
	Until string
	// Filters are applied server-side.
	Filters Filters
}

// ToParams renders the options as query parameters.
func (o *EventsOptions) ToParams() (url.Values, error) {
	params := url.Values{}
	if o == nil {
		return params, nil
	}

	if o.Since != "" {
		params.Set("since", o.Since)
	}

	if o.Until != "" {
		params.Set("until", o.Until)
	}

	encoded, err := o.Filters.encode()
	if err != nil {
		return nil, err
	}

	if encoded != "" {
		params.Set("filters", encoded)
	}

	return params, nil
}

// PullOptions controls image pull requests.
type PullOptions struct {
	// Quiet suppresses progress frames; only the final report is returned.
	Quiet bool
	// TLSVerify toggles registry certificate verification; nil uses the
	// service default.
	TLSVerify *bool
	// Arch, OS and Variant override the platform of the pulled image.
	Arch    string
	OS      string
	Variant string
	// Policy is the pull policy: always, missing, newer, never.
	Policy string
}

// ToParams renders the options as query parameters.
func (o *PullOptions) ToParams() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}

	if o.Quiet {
		params.Set("quiet", "true")
	}

	if o.TLSVerify != nil {
		params.Set("tlsVerify", strconv.FormatBool(*o.TLSVerify))
	}

	if o.Arch != "" {
		params.Set("Arch", o.Arch)
	}

	if o.OS != "" {
		params.Set("OS", o.OS)
	}

	if o.Variant != "" {
		params.Set("Variant", o.Variant)
	}

	if o.Policy != "" {
		params.Set("policy", o.Policy)
	}

	return params
}
