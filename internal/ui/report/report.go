package report

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"codescope/internal/core/app"
	"codescope/internal/core/errors"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return Format(s), nil
	case "":
		return FormatJSON, nil
	}
	return "", errors.Newf(errors.CodeValidationError, "output format %q must be one of: json, yaml, markdown", s)
}

// Render serializes a finished analysis in the requested format. JSON and
// YAML carry the full result; markdown is a human-readable digest.
func Render(analysis *app.ProjectAnalysis, format Format) ([]byte, error) {
	if analysis == nil {
		return nil, errors.New(errors.CodeValidationError, "nothing to render")
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "encode analysis as json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(analysis); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "encode analysis as yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "encode analysis as yaml")
		}
		return buf.Bytes(), nil
	case FormatMarkdown:
		return []byte(Markdown(analysis)), nil
	}
	return nil, errors.Newf(errors.CodeValidationError, "unsupported output format %q", format)
}
