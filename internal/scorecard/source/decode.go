package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"scorecard/internal/scorecard"
)

const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

const (
	fieldVariable = "variable"
	fieldClass    = "class"
	fieldScore    = "score"
)

// FormatFromName infers the artifact format from a file name or URL path extension.
// Returns an empty string when the extension is not recognized.
func FormatFromName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return ""
	}
}

// Decode reads scorecard rows in the given format.
//
// CSV input must have a header naming the Variable, Class and Score columns
// (case-insensitive, any order, extra columns ignored). YAML and JSON input is a list of
// objects with the same three keys. Scores may be written as numbers or numeric strings.
// Any row missing a field or carrying a non-numeric score fails with scorecard.LoadError.
func Decode(r io.Reader, format string) (scorecard.Table, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(r)
	case FormatYAML, FormatJSON:
		// JSON documents are valid YAML, one decoder serves both.
		return decodeYAML(r)
	default:
		return nil, fmt.Errorf("unsupported scorecard format %q", format)
	}
}

func decodeCSV(r io.Reader) (scorecard.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return scorecard.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, field := range []string{fieldVariable, fieldClass, fieldScore} {
		if _, found := columns[field]; !found {
			return nil, scorecard.NewLoadError(0, field, "missing column in csv header")
		}
	}

	table := scorecard.Table{}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, scorecard.NewLoadError(row, "record", err.Error())
		}
		values := map[string]any{
			fieldVariable: record[columns[fieldVariable]],
			fieldClass:    record[columns[fieldClass]],
			fieldScore:    strings.TrimSpace(record[columns[fieldScore]]),
		}
		parsed, err := parseRow(row, values)
		if err != nil {
			return nil, err
		}
		table = append(table, parsed)
	}

	return table, nil
}

func decodeYAML(r io.Reader) (scorecard.Table, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return scorecard.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode scorecard rows: %w", err)
	}

	root := resolve(&doc)
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = resolve(root.Content[0])
	}
	if isNull(root) {
		return scorecard.Table{}, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, scorecard.NewLoadError(0, "record", "expected a list of rows")
	}

	table := make(scorecard.Table, 0, len(root.Content))
	for i, item := range root.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode {
			return nil, scorecard.NewLoadError(i+1, "record", "expected an object")
		}

		values := make(map[string]any, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key := strings.ToLower(resolve(item.Content[j]).Value)
			value := resolve(item.Content[j+1])
			switch {
			case isNull(value):
				values[key] = nil
			case value.Kind == yaml.ScalarNode:
				// Scalars keep their source text so labels such as 1.10 or 01 survive.
				values[key] = value.Value
			default:
				values[key] = value
			}
		}
		parsed, err := parseRow(i+1, values)
		if err != nil {
			return nil, err
		}
		table = append(table, parsed)
	}

	return table, nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func parseRow(row int, values map[string]any) (scorecard.Row, error) {
	var parsed scorecard.Row

	for _, field := range []string{fieldVariable, fieldClass, fieldScore} {
		value, found := values[field]
		if !found || value == nil || value == "" {
			return parsed, scorecard.NewLoadError(row, field, "missing value")
		}
		if _, nested := value.(*yaml.Node); nested {
			return parsed, scorecard.NewLoadError(row, field, "must be a scalar value")
		}
	}

	variable, err := cast.ToStringE(values[fieldVariable])
	if err != nil {
		return parsed, scorecard.NewLoadError(row, fieldVariable, err.Error())
	}
	class, err := cast.ToStringE(values[fieldClass])
	if err != nil {
		return parsed, scorecard.NewLoadError(row, fieldClass, err.Error())
	}
	score, err := cast.ToFloat64E(values[fieldScore])
	if err != nil {
		return parsed, scorecard.NewLoadError(row, fieldScore, "not a number")
	}

	parsed.Variable = variable
	parsed.Class = class
	parsed.Score = score
	return parsed, nil
}
